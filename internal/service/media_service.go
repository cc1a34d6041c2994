package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/folio/internal/filestore"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
)

const sniffLen = 512

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UploadResult struct {
	URL         string `json:"url"`
	FileID      string `json:"file_id"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// MediaService stores admin uploads in the configured file store.
type MediaService struct {
	store    filestore.Store
	baseURL  string
	maxImage int64
}

func NewMediaService(store filestore.Store, baseURL string, maxImageBytes int64) *MediaService {
	return &MediaService{store: store, baseURL: baseURL, maxImage: maxImageBytes}
}

func (s *MediaService) MaxImageBytes() int64 {
	return s.maxImage
}

// UploadImage accepts JPEG, PNG, WebP and GIF content, detected from the
// leading bytes rather than the client supplied name or type.
func (s *MediaService) UploadImage(ctx context.Context, r io.Reader, size int64) (*UploadResult, error) {
	if size <= 0 {
		return nil, appErr.ErrInvalidFile
	}
	if s.maxImage > 0 && size > s.maxImage {
		return nil, appErr.ErrFileTooLarge
	}
	reader, contentType, err := sniff(r)
	if err != nil {
		return nil, err
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("content type %s: %w", contentType, appErr.ErrInvalidFile)
	}
	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generate file id: %w", err)
	}
	key := id + ext
	if err := s.store.Save(ctx, key, reader, size, contentType); err != nil {
		logutil.GetLogger(ctx).Error("save image failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return &UploadResult{
		URL:         s.store.URL(key, s.baseURL),
		FileID:      key,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Open serves an object back from the store.
func (s *MediaService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if !filestore.ValidKey(key) {
		return nil, appErr.ErrInvalid
	}
	return s.store.Open(ctx, key)
}

func (s *MediaService) StoreType() string {
	return s.store.Type()
}

func sniff(r io.Reader) (io.Reader, string, error) {
	buffered := bufio.NewReaderSize(r, sniffLen)
	head, err := buffered.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", err
	}
	return buffered, http.DetectContentType(head), nil
}
