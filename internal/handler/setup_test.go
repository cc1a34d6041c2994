package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/folio/internal/config"
	"github.com/xxxsen/folio/internal/filestore"
	"github.com/xxxsen/folio/internal/handler"
	"github.com/xxxsen/folio/internal/middleware"
	"github.com/xxxsen/folio/internal/model"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/repo"
	"github.com/xxxsen/folio/internal/service"
	"github.com/xxxsen/folio/internal/session"
)

const (
	testSiteURL  = "https://folio.example"
	testPassword = "hunter2"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testEnv struct {
	router   http.Handler
	links    *memShareLinks
	booklets *memBooklets
	store    filestore.Store
	token    string
}

type setupOptions struct {
	loginLimit  time.Duration
	maxFailures int
}

func setupRouter(t *testing.T, opts setupOptions) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	authority := session.NewAuthority([]byte("test-secret"), time.Hour)
	links := newMemShareLinks()
	booklets := newMemBooklets()
	linkService := service.NewShareLinkService(links)
	limiter := handler.NewRedeemLimiter(handler.NewMemoryFailureCounter(time.Minute), opts.maxFailures)

	deps := handler.RouterDeps{
		Auth:       handler.NewAuthHandler(service.NewAuthService(testPassword, "", authority), session.CookieOptions{MaxAge: time.Hour}),
		Shares:     handler.NewShareHandler(linkService, limiter, testSiteURL),
		Projects:   handler.NewProjectHandler(service.NewProjectService(newMemProjects())),
		Booklets:   handler.NewBookletHandler(service.NewBookletService(booklets, store, testSiteURL, 1<<20)),
		Files:      handler.NewFileHandler(service.NewMediaService(store, testSiteURL, 1<<20)),
		Properties: handler.NewPropertiesHandler(config.Properties{AdminPassword: true, SessionSecret: true, FileStore: "local"}),
		Verifier:   authority,
		LoginLimit: opts.loginLimit,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(nil),
			middleware.Timeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	token, err := authority.Issue()
	require.NoError(t, err)
	return &testEnv{router: engine, links: links, booklets: booklets, store: store, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, fn := range mutate {
		fn(req)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) doJSON(t *testing.T, method, path string, payload interface{}, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	return e.do(t, method, path, body, "application/json", mutate...)
}

func (e *testEnv) asAdmin(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: e.token})
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

type memShareLinks struct {
	mu    sync.Mutex
	items map[string]model.ShareLink
}

func newMemShareLinks() *memShareLinks {
	return &memShareLinks{items: map[string]model.ShareLink{}}
}

func (m *memShareLinks) put(link model.ShareLink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[link.ID] = link
}

func (m *memShareLinks) Create(ctx context.Context, link *model.ShareLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[link.ID]; ok {
		return appErr.ErrConflict
	}
	m.items[link.ID] = *link
	return nil
}

func (m *memShareLinks) GetByID(ctx context.Context, id string) (*model.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &link, nil
}

func (m *memShareLinks) ListByTarget(ctx context.Context, targetURL string) ([]model.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ShareLink, 0)
	for _, link := range m.items {
		if link.TargetURL == targetURL {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memShareLinks) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return appErr.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memShareLinks) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type memProjects struct {
	mu    sync.Mutex
	items map[string]model.Project
}

func newMemProjects() *memProjects {
	return &memProjects{items: map[string]model.Project{}}
}

func (m *memProjects) Create(ctx context.Context, project *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[project.ID] = *project
	return nil
}

func (m *memProjects) Update(ctx context.Context, id string, update repo.ProjectUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m *memProjects) GetByID(ctx context.Context, id string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (m *memProjects) List(ctx context.Context) ([]model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Project, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memProjects) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return appErr.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memBooklets struct {
	mu    sync.Mutex
	items map[string]model.Booklet
}

func newMemBooklets() *memBooklets {
	return &memBooklets{items: map[string]model.Booklet{}}
}

func (m *memBooklets) Create(ctx context.Context, booklet *model.Booklet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[booklet.ID] = *booklet
	return nil
}

func (m *memBooklets) GetByID(ctx context.Context, id string) (*model.Booklet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (m *memBooklets) List(ctx context.Context) ([]model.Booklet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booklet, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memBooklets) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return appErr.ErrNotFound
	}
	delete(m.items, id)
	return nil
}
