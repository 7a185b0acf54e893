package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/storyloomhq/storyloom/internal/session"
)

// AnalyzeImages submits a batch of uploaded images for face/object analysis
// and returns the per-image summaries plus batch success/failure counts.
// This is a fire-and-forget side effect from the wizard's point of view:
// failure never blocks step progression.
func (c *Client) AnalyzeImages(ctx context.Context, images []session.ImageRef) (*session.ImageAnalysis, error) {
	ids := make([]string, len(images))
	for i, img := range images {
		ids[i] = img.ID
	}

	req := struct {
		ImageIDs []string `json:"image_ids"`
	}{ImageIDs: ids}

	var out session.ImageAnalysis
	if err := c.doJSON(ctx, http.MethodPost, "/images/analyze", req, &out); err != nil {
		return nil, fmt.Errorf("analyzing %d images: %w", len(images), err)
	}
	return &out, nil
}
