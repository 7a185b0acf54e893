package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"email":"u@example.com"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"))
	_, err := c.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestUnauthorizedInvalidatesCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer srv.Close()

	invalidated := false
	c := New(srv.URL, WithToken("stale"), WithOnUnauthorized(func() { invalidated = true }))

	_, err := c.ListVoices(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized), "401 must map to ErrUnauthorized, got %v", err)
	assert.True(t, invalidated, "onUnauthorized hook must fire on 401")
	assert.Equal(t, CategoryAuth, Categorize(err))
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such video"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.DeleteVideo(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, CategoryNotFound, Categorize(err))
}

func TestValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"story too short"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ParseStory(context.Background(), "x")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Message, "story too short")
	assert.Equal(t, CategoryValidation, Categorize(err))
	assert.False(t, IsRetryable(err))
}

func TestServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListVideos(context.Background())
	require.Error(t, err)
	assert.Equal(t, CategoryTransient, Categorize(err))
	assert.True(t, IsRetryable(err))
}

func TestNetworkErrorIsTransient(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	_, err := c.ListVideos(context.Background())
	require.Error(t, err)

	var te *TransportError
	assert.True(t, errors.As(err, &te))
	assert.True(t, IsRetryable(err))
}
