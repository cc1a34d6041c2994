package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/xxxsen/folio/internal/model"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/repo"
)

type memShareStore struct {
	mu        sync.Mutex
	links     map[string]model.ShareLink
	createErr error
	getErr    error
	creates   int
}

func newMemShareStore() *memShareStore {
	return &memShareStore{links: map[string]model.ShareLink{}}
}

func (m *memShareStore) Create(ctx context.Context, link *model.ShareLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.links[link.ID]; ok {
		return appErr.ErrConflict
	}
	m.links[link.ID] = *link
	return nil
}

func (m *memShareStore) GetByID(ctx context.Context, id string) (*model.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	link, ok := m.links[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &link, nil
}

func (m *memShareStore) ListByTarget(ctx context.Context, targetURL string) ([]model.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ShareLink, 0)
	for _, link := range m.links {
		if link.TargetURL == targetURL {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memShareStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.links[id]; !ok {
		return appErr.ErrNotFound
	}
	delete(m.links, id)
	return nil
}

func (m *memShareStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, link := range m.links {
		if link.ExpiresAt != nil && link.ExpiresAt.Before(cutoff) {
			delete(m.links, id)
			n++
		}
	}
	return n, nil
}

type memProjectStore struct {
	items map[string]model.Project
}

func newMemProjectStore() *memProjectStore {
	return &memProjectStore{items: map[string]model.Project{}}
}

func (m *memProjectStore) Create(ctx context.Context, project *model.Project) error {
	m.items[project.ID] = *project
	return nil
}

func (m *memProjectStore) Update(ctx context.Context, id string, update repo.ProjectUpdate) error {
	item, ok := m.items[id]
	if !ok {
		return appErr.ErrNotFound
	}
	if update.Title != nil {
		item.Title = *update.Title
	}
	if update.Layout != nil {
		item.Layout = *update.Layout
	}
	if update.Animation != nil {
		item.Animation = *update.Animation
	}
	if update.Images != nil {
		item.Images = *update.Images
	}
	m.items[id] = item
	return nil
}

func (m *memProjectStore) GetByID(ctx context.Context, id string) (*model.Project, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (m *memProjectStore) List(ctx context.Context) ([]model.Project, error) {
	out := make([]model.Project, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memProjectStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return appErr.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memBookletStore struct {
	items     map[string]model.Booklet
	createErr error
}

func newMemBookletStore() *memBookletStore {
	return &memBookletStore{items: map[string]model.Booklet{}}
}

func (m *memBookletStore) Create(ctx context.Context, booklet *model.Booklet) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.items[booklet.ID] = *booklet
	return nil
}

func (m *memBookletStore) GetByID(ctx context.Context, id string) (*model.Booklet, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (m *memBookletStore) List(ctx context.Context) ([]model.Booklet, error) {
	out := make([]model.Booklet, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memBookletStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return appErr.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memFileStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemFileStore() *memFileStore {
	return &memFileStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memFileStore) Type() string { return "memory" }

func (m *memFileStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memFileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memFileStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memFileStore) URL(key, baseURL string) string {
	return baseURL + "/files/" + key
}
