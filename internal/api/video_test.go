package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForPreviewPollsUntilCompleted(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)
		job := PreviewJob{ID: "job-1", Status: "rendering", Progress: int(n) * 30}
		if n >= 3 {
			job.Status = "completed"
			job.Progress = 100
			job.URL = "https://cdn.example/preview.mp4"
		}
		_ = json.NewEncoder(w).Encode(job)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.httpc.Timeout = 5 * time.Second
	defaultPollInterval = 10 * time.Millisecond
	defer func() { defaultPollInterval = 2 * time.Second }()

	var seen []int
	job, err := c.WaitForPreview(context.Background(), "job-1", func(j *PreviewJob) {
		seen = append(seen, j.Progress)
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", job.Status)
	assert.Equal(t, "https://cdn.example/preview.mp4", job.URL)
	assert.GreaterOrEqual(t, len(seen), 3)
}

func TestWaitForPreviewFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(PreviewJob{ID: "job-2", Status: "failed", Error: "codec crashed"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	defaultPollInterval = 10 * time.Millisecond
	defer func() { defaultPollInterval = 2 * time.Second }()

	_, err := c.WaitForPreview(context.Background(), "job-2", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codec crashed")
	assert.True(t, IsRetryable(err), "render failures should offer a retry")
}

func TestWaitForPreviewRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(PreviewJob{ID: "job-3", Status: "queued"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	defaultPollInterval = 10 * time.Millisecond
	defer func() { defaultPollInterval = 2 * time.Second }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.WaitForPreview(ctx, "job-3", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDownloadVideo(t *testing.T) {
	payload := []byte("mp4 bytes here")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/vid-1/download", r.URL.Path)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := New(srv.URL)
	var buf bytes.Buffer
	n, err := c.DownloadVideo(context.Background(), "vid-1", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, payload, buf.Bytes())
}

func TestStreamURL(t *testing.T) {
	c := New("https://api.example.test/v1")
	assert.Equal(t, "https://api.example.test/v1/videos/vid-1/stream", c.StreamURL("vid-1"))
}

func TestListVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"videos":[{"id":"v1","title":"Beach Trip","size_bytes":1048576,"watermarked":true}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	videos, err := c.ListVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Beach Trip", videos[0].Title)
	assert.True(t, videos[0].Watermarked)
}
