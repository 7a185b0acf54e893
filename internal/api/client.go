// Package api wraps the StoryLoom backend HTTP endpoints: image storage,
// story parsing, image analysis, narration, video rendering, and the video
// library. Every call sends JSON over HTTP with a bearer token attached.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storyloomhq/storyloom/internal/logger"
)

const defaultTimeout = 120 * time.Second

// Client talks to the StoryLoom backend.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client

	// onUnauthorized is invoked on any 401 so the caller can invalidate
	// stored credentials. Every endpoint treats 401 uniformly.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithOnUnauthorized registers a hook called whenever the backend answers 401.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a backend client for the given base URL (e.g.
// "https://api.storyloom.io/v1").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token (after login).
func (c *Client) SetToken(token string) {
	c.token = token
}

// doJSON performs a JSON request against path and decodes the response body
// into out (if non-nil). Non-2xx statuses are mapped onto the error taxonomy
// in errors.go.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	logger.Debug("%s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(respBody))

	if err := c.checkStatus(resp.StatusCode, respBody); err != nil {
		return err
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// authorize attaches the bearer token to a request.
func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// checkStatus maps a response status onto the error taxonomy. A 401 also
// fires the onUnauthorized hook so local credentials are invalidated.
func (c *Client) checkStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	msg := errorMessage(body)

	switch {
	case status == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case status >= 400 && status < 500:
		return &APIError{Status: status, Message: msg}
	default:
		return &APIError{Status: status, Message: msg, Transient: true}
	}
}

// decodeJSON unmarshals a response body with a uniform error wrap.
func decodeJSON(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// errorMessage extracts the backend's error message from a response body,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var wrapper struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil {
		if wrapper.Error != "" {
			return wrapper.Error
		}
		if wrapper.Message != "" {
			return wrapper.Message
		}
	}
	if len(body) == 0 {
		return "no response body"
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
