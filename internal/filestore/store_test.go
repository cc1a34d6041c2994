package filestore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/folio/internal/config"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": dir}})
	require.NoError(t, err)
	require.Equal(t, "local", store.Type())

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a.pdf", strings.NewReader("hello"), 5, "application/pdf"))

	rc, err := store.Open(ctx, "a.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, "a.pdf"))
	_, err = store.Open(ctx, "a.pdf")
	require.ErrorIs(t, err, appErr.ErrNotFound)
	require.NoError(t, store.Delete(ctx, "a.pdf"))
}

func TestLocalStoreRejectsShortWrite(t *testing.T) {
	store, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	err = store.Save(context.Background(), "b.png", strings.NewReader("abc"), 10, "image/png")
	require.Error(t, err)
	_, err = store.Open(context.Background(), "b.png")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestLocalStoreURL(t *testing.T) {
	store, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	require.Equal(t, "https://folio.example/api/v1/files/x.png", store.URL("x.png", "https://folio.example/"))

	store, err = New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir(), "public_url": "https://cdn.example/"}})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/x.png", store.URL("x.png", "https://folio.example"))
}

func TestInvalidKeys(t *testing.T) {
	store, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	for _, key := range []string{"", "..", "../etc/passwd", "a/b", `a\b`} {
		require.False(t, ValidKey(key), key)
		_, err := store.Open(context.Background(), key)
		require.ErrorIs(t, err, appErr.ErrInvalid, key)
	}
	require.True(t, ValidKey("3f2a.pdf"))
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(config.FileStoreConfig{Type: "ftp"})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "local"})
	require.Error(t, err)
}

func TestBucketURL(t *testing.T) {
	require.Equal(t, "https://s3.example.com/media", bucketURL(withScheme("s3.example.com", true), "media"))
	require.Equal(t, "http://minio:9000/media", bucketURL(withScheme("http://minio:9000/", false), "media"))
	require.Equal(t, "docs/a.pdf", objectKey("docs", "a.pdf"))
	require.Equal(t, "a.pdf", objectKey("", "a.pdf"))
}
