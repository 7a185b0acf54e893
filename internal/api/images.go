package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/storyloomhq/storyloom/internal/logger"
	"github.com/storyloomhq/storyloom/internal/session"
)

// UploadProgress is invoked after each image finishes uploading.
type UploadProgress func(done, total int, ref session.ImageRef)

// UploadImages uploads the files sequentially, awaiting each upload before
// starting the next so the backend observes completions in submission order.
// The returned refs preserve the input order.
func (c *Client) UploadImages(ctx context.Context, paths []string, progress UploadProgress) ([]session.ImageRef, error) {
	refs := make([]session.ImageRef, 0, len(paths))
	for i, path := range paths {
		ref, err := c.UploadImage(ctx, path)
		if err != nil {
			return refs, fmt.Errorf("uploading %s (%d of %d): %w", filepath.Base(path), i+1, len(paths), err)
		}
		refs = append(refs, ref)
		if progress != nil {
			progress(i+1, len(paths), ref)
		}
	}
	return refs, nil
}

// UploadImage uploads one image file as multipart form data and returns the
// backend's opaque id plus derived metadata.
func (c *Client) UploadImage(ctx context.Context, path string) (session.ImageRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return session.ImageRef{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return session.ImageRef{}, fmt.Errorf("creating form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return session.ImageRef{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return session.ImageRef{}, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images", &body)
	if err != nil {
		return session.ImageRef{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return session.ImageRef{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return session.ImageRef{}, &TransportError{Err: err}
	}
	if err := c.checkStatus(resp.StatusCode, respBody); err != nil {
		return session.ImageRef{}, err
	}

	var ref session.ImageRef
	if err := decodeJSON(respBody, &ref); err != nil {
		return session.ImageRef{}, err
	}
	logger.Debug("Uploaded %s as image %s", filepath.Base(path), ref.ID)
	return ref, nil
}

// ListImages returns the user's uploaded images.
func (c *Client) ListImages(ctx context.Context) ([]session.ImageRef, error) {
	var out struct {
		Images []session.ImageRef `json:"images"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/images", nil, &out); err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	return out.Images, nil
}

// DeleteImage removes an uploaded image by id.
func (c *Client) DeleteImage(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/images/"+id, nil, nil); err != nil {
		return fmt.Errorf("deleting image %s: %w", id, err)
	}
	return nil
}
