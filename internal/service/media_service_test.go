package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/folio/internal/pkg/errors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestMediaServiceUploadImage(t *testing.T) {
	store := newMemFileStore()
	svc := NewMediaService(store, "https://folio.example", 1024)

	res, err := svc.UploadImage(context.Background(), bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	require.Equal(t, "image/png", res.ContentType)
	require.True(t, strings.HasSuffix(res.FileID, ".png"))
	require.Equal(t, "https://folio.example/files/"+res.FileID, res.URL)
	require.Equal(t, pngHeader, store.objects[res.FileID])

	rc, err := svc.Open(context.Background(), res.FileID)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, pngHeader, data)
}

func TestMediaServiceRejectsBadUploads(t *testing.T) {
	svc := NewMediaService(newMemFileStore(), "https://folio.example", 16)
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, strings.NewReader("plain text here"), 15)
	require.True(t, errors.Is(err, appErr.ErrInvalidFile))

	_, err = svc.UploadImage(ctx, bytes.NewReader(pngHeader), 17)
	require.ErrorIs(t, err, appErr.ErrFileTooLarge)

	_, err = svc.UploadImage(ctx, bytes.NewReader(nil), 0)
	require.ErrorIs(t, err, appErr.ErrInvalidFile)

	_, err = svc.Open(ctx, "../secret")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}
