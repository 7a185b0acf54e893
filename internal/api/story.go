package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/storyloomhq/storyloom/internal/session"
)

// ParseStory sends the free-text story to the backend parser and returns the
// ordered chapters it derived. This call gates the story → script transition:
// callers must not advance past the story step until it resolves.
func (c *Client) ParseStory(ctx context.Context, story string) ([]session.Chapter, error) {
	req := struct {
		Story string `json:"story"`
	}{Story: story}

	var out struct {
		Chapters []session.Chapter `json:"chapters"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/story/parse", req, &out); err != nil {
		return nil, fmt.Errorf("parsing story: %w", err)
	}
	return out.Chapters, nil
}
