package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/folio/internal/filestore"
	"github.com/xxxsen/folio/internal/model"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
)

const pdfContentType = "application/pdf"

type BookletStore interface {
	Create(ctx context.Context, booklet *model.Booklet) error
	GetByID(ctx context.Context, id string) (*model.Booklet, error)
	List(ctx context.Context) ([]model.Booklet, error)
	Delete(ctx context.Context, id string) error
}

type BookletService struct {
	booklets BookletStore
	store    filestore.Store
	baseURL  string
	maxPDF   int64
}

// CreateBookletInput carries either an uploaded PDF (File and Size) or an
// ExternalURL pointing at an already hosted document.
type CreateBookletInput struct {
	Title       string
	ExternalURL string
	File        io.Reader
	Size        int64
}

func NewBookletService(booklets BookletStore, store filestore.Store, baseURL string, maxPDFBytes int64) *BookletService {
	return &BookletService{booklets: booklets, store: store, baseURL: baseURL, maxPDF: maxPDFBytes}
}

func (s *BookletService) MaxPDFBytes() int64 {
	return s.maxPDF
}

func (s *BookletService) List(ctx context.Context) ([]model.Booklet, error) {
	return s.booklets.List(ctx)
}

func (s *BookletService) Create(ctx context.Context, input CreateBookletInput) (*model.Booklet, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title: %w", appErr.ErrInvalid)
	}
	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generate booklet id: %w", err)
	}
	booklet := &model.Booklet{
		ID:        id,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	switch {
	case input.File != nil:
		key, err := s.savePDF(ctx, booklet.ID, input.File, input.Size)
		if err != nil {
			return nil, err
		}
		booklet.StorageKey = key
		booklet.PDFURL = s.store.URL(key, s.baseURL)
	case strings.TrimSpace(input.ExternalURL) != "":
		external := strings.TrimSpace(input.ExternalURL)
		u, err := url.Parse(external)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("external url: %w", appErr.ErrInvalid)
		}
		booklet.PDFURL = external
	default:
		return nil, fmt.Errorf("pdf file or external url: %w", appErr.ErrInvalid)
	}
	if err := s.booklets.Create(ctx, booklet); err != nil {
		if booklet.StorageKey != "" {
			if delErr := s.store.Delete(ctx, booklet.StorageKey); delErr != nil {
				logutil.GetLogger(ctx).Warn("remove orphaned booklet object failed",
					zap.String("key", booklet.StorageKey), zap.Error(delErr))
			}
		}
		return nil, err
	}
	return booklet, nil
}

func (s *BookletService) savePDF(ctx context.Context, id string, r io.Reader, size int64) (string, error) {
	if size <= 0 {
		return "", appErr.ErrInvalidFile
	}
	if s.maxPDF > 0 && size > s.maxPDF {
		return "", appErr.ErrFileTooLarge
	}
	reader, contentType, err := sniff(r)
	if err != nil {
		return "", err
	}
	if contentType != pdfContentType {
		return "", fmt.Errorf("content type %s: %w", contentType, appErr.ErrInvalidFile)
	}
	key := id + ".pdf"
	if err := s.store.Save(ctx, key, reader, size, pdfContentType); err != nil {
		logutil.GetLogger(ctx).Error("save booklet pdf failed", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return key, nil
}

// Delete removes the stored PDF, if the booklet owns one, and then the row.
func (s *BookletService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErr.ErrInvalid
	}
	booklet, err := s.booklets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booklet.StorageKey != "" {
		if err := s.store.Delete(ctx, booklet.StorageKey); err != nil {
			logutil.GetLogger(ctx).Warn("remove booklet object failed",
				zap.String("id", id), zap.String("key", booklet.StorageKey), zap.Error(err))
		}
	}
	return s.booklets.Delete(ctx, id)
}
