package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0644))
	return path
}

func TestUploadImagesSequentialOrder(t *testing.T) {
	var mu sync.Mutex
	var received []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)

		mu.Lock()
		received = append(received, header.Filename)
		n := len(received)
		mu.Unlock()

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       fmt.Sprintf("img-%d", n),
			"filename": header.Filename,
			"status":   "processed",
		})
	}))
	defer srv.Close()

	dir := t.TempDir()
	paths := []string{
		writeTempImage(t, dir, "first.jpg"),
		writeTempImage(t, dir, "second.jpg"),
		writeTempImage(t, dir, "third.jpg"),
	}

	var progress []int
	c := New(srv.URL, WithToken("t"))
	refs, err := c.UploadImages(context.Background(), paths, func(done, total int, ref session.ImageRef) {
		progress = append(progress, done)
	})
	require.NoError(t, err)

	// Uploads are awaited one at a time, so the server must observe files in
	// submission order.
	assert.Equal(t, []string{"first.jpg", "second.jpg", "third.jpg"}, received)
	require.Len(t, refs, 3)
	assert.Equal(t, "img-1", refs[0].ID)
	assert.Equal(t, "img-3", refs[2].ID)
	assert.Equal(t, []int{1, 2, 3}, progress)
}

func TestUploadImageFailureStopsBatch(t *testing.T) {
	var count int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		if count == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "img-1"})
	}))
	defer srv.Close()

	dir := t.TempDir()
	paths := []string{
		writeTempImage(t, dir, "a.jpg"),
		writeTempImage(t, dir, "b.jpg"),
		writeTempImage(t, dir, "c.jpg"),
	}

	c := New(srv.URL)
	refs, err := c.UploadImages(context.Background(), paths, nil)
	require.Error(t, err)
	assert.Len(t, refs, 1, "successful uploads before the failure are returned")
	assert.Equal(t, 2, count, "no upload is attempted after a failure")
}

func TestDeleteImage(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.DeleteImage(context.Background(), "img-9"))
	assert.Equal(t, "/images/img-9", gotPath)
	assert.Equal(t, http.MethodDelete, gotMethod)
}
