package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	return ls
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ls := newTestStorage(t)
	ctx := context.Background()

	resp, err := ls.Upload(ctx, &UploadRequest{
		Key:         "cars/abc/photo.jpg",
		Reader:      strings.NewReader("fake image bytes"),
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len("fake image bytes")), resp.Size)
	assert.Equal(t, "http://localhost:8080/uploads/cars/abc/photo.jpg", resp.URL)

	exists, err := ls.Exists(ctx, "cars/abc/photo.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	download, err := ls.Download(ctx, "cars/abc/photo.jpg")
	require.NoError(t, err)
	defer download.Reader.Close()
	data, err := io.ReadAll(download.Reader)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestLocalStorageDelete(t *testing.T) {
	ls := newTestStorage(t)
	ctx := context.Background()

	_, err := ls.Upload(ctx, &UploadRequest{
		Key:    "tmp/file.txt",
		Reader: strings.NewReader("x"),
	})
	require.NoError(t, err)

	require.NoError(t, ls.Delete(ctx, "tmp/file.txt"))

	exists, err := ls.Exists(ctx, "tmp/file.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is not an error.
	assert.NoError(t, ls.Delete(ctx, "tmp/file.txt"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ls := newTestStorage(t)
	ctx := context.Background()

	// Clean collapses the traversal inside the base path, so the write
	// lands under basePath either way; what matters is it cannot escape.
	path, err := ls.resolve("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, ls.basePath))

	_, err = ls.Upload(ctx, &UploadRequest{
		Key:    "../../escape.txt",
		Reader: strings.NewReader("x"),
	})
	require.NoError(t, err)
	exists, err := ls.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}
