package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized marks any 401 response. Callers treat it uniformly as
	// "not authenticated": stored credentials are invalid and the user must
	// log in again.
	ErrUnauthorized = errors.New("not authenticated")

	// ErrNotFound marks a 404 on a resource reference. Callers surface
	// "resource not found" and refresh local lists where applicable.
	ErrNotFound = errors.New("resource not found")
)

// APIError is a non-2xx backend response that is neither a 401 nor a 404.
type APIError struct {
	Status    int
	Message   string
	Transient bool // 5xx: worth retrying
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// TransportError wraps a network-level failure (connection refused, timeout).
// Always retryable, never automatically retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Category classifies an error for presentation.
type Category int

const (
	CategoryAuth       Category = iota // force re-login
	CategoryValidation                 // user corrects input and retries
	CategoryNotFound                   // refresh local list
	CategoryTransient                  // offer retry affordance
)

// Categorize maps an error from this package onto the presentation taxonomy.
// Unknown errors are treated as transient so the user always gets a retry
// affordance rather than a dead end.
func Categorize(err error) Category {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return CategoryAuth
	case errors.Is(err, ErrNotFound):
		return CategoryNotFound
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Transient {
			return CategoryTransient
		}
		return CategoryValidation
	}

	return CategoryTransient
}

// IsRetryable reports whether the user should be offered a retry for err.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}
