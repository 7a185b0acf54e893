package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storyloomhq/storyloom/internal/session"
)

var (
	defaultPollInterval = 2 * time.Second
	maxPollAttempts     = 300 // 10 minutes max at 2s intervals
)

// PreviewRequest asks the renderer to compose a preview video from the
// session's chapters, images, theme, and optional narration/music.
type PreviewRequest struct {
	Chapters     []session.Chapter  `json:"chapters"`
	Images       []session.ImageRef `json:"images"`
	ThemeID      string             `json:"theme_id"`
	NarrationID  string             `json:"narration_id,omitempty"`
	MusicTrackID string             `json:"music_track_id,omitempty"`
	Subtitles    bool               `json:"subtitles"`
	Watermark    bool               `json:"watermark"`
}

// PreviewJob is the render job state returned by the backend.
type PreviewJob struct {
	ID       string `json:"id"`
	Status   string `json:"status"` // queued, rendering, completed, failed
	Progress int    `json:"progress"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Video is one entry in the user's video library.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SizeBytes   int64     `json:"size_bytes"`
	Watermarked bool      `json:"watermarked"`
	CreatedAt   time.Time `json:"created_at"`
}

// GeneratePreview starts a render job and returns its initial state.
func (c *Client) GeneratePreview(ctx context.Context, req PreviewRequest) (*PreviewJob, error) {
	var out PreviewJob
	if err := c.doJSON(ctx, http.MethodPost, "/videos/preview", req, &out); err != nil {
		return nil, fmt.Errorf("starting preview render: %w", err)
	}
	return &out, nil
}

// PreviewStatus fetches the current state of a render job.
func (c *Client) PreviewStatus(ctx context.Context, id string) (*PreviewJob, error) {
	var out PreviewJob
	if err := c.doJSON(ctx, http.MethodGet, "/videos/preview/"+id, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching preview status: %w", err)
	}
	return &out, nil
}

// WaitForPreview polls the render job until it completes, fails, or the
// context is cancelled. onProgress (optional) receives each polled state.
func (c *Client) WaitForPreview(ctx context.Context, id string, onProgress func(*PreviewJob)) (*PreviewJob, error) {
	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			job, err := c.PreviewStatus(ctx, id)
			if err != nil {
				return nil, err
			}
			if onProgress != nil {
				onProgress(job)
			}

			switch job.Status {
			case "completed":
				return job, nil
			case "failed":
				msg := job.Error
				if msg == "" {
					msg = "render failed"
				}
				return nil, &APIError{Status: http.StatusInternalServerError, Message: msg, Transient: true}
			case "queued", "rendering":
				continue
			default:
				return nil, fmt.Errorf("unknown render status: %s", job.Status)
			}
		}
	}
	return nil, fmt.Errorf("preview render timed out after %d polls", maxPollAttempts)
}

// ListVideos returns the user's previously generated videos.
func (c *Client) ListVideos(ctx context.Context) ([]Video, error) {
	var out struct {
		Videos []Video `json:"videos"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/videos", nil, &out); err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	return out.Videos, nil
}

// DeleteVideo removes a video from the library.
func (c *Client) DeleteVideo(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/videos/"+id, nil, nil); err != nil {
		return fmt.Errorf("deleting video %s: %w", id, err)
	}
	return nil
}

// StreamURL returns the streaming endpoint for a video.
func (c *Client) StreamURL(id string) string {
	return c.baseURL + "/videos/" + id + "/stream"
}

// DownloadVideo streams a video's bytes into w and returns the byte count.
func (c *Client) DownloadVideo(ctx context.Context, id string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos/"+id+"/download", nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, c.checkStatus(resp.StatusCode, body)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &TransportError{Err: err}
	}
	return n, nil
}
