package portal

import (
	"errors"
	"fmt"
)

// Common errors returned by the portal client.
var (
	// ErrNotFound indicates the object was not found.
	ErrNotFound = errors.New("not found on portal")

	// ErrAuthError indicates missing or rejected credentials.
	ErrAuthError = errors.New("portal authentication error")

	// ErrRateLimited indicates the portal throttled the request.
	ErrRateLimited = errors.New("portal rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with portal")

	// ErrInvalidResponse indicates an unexpected response body.
	ErrInvalidResponse = errors.New("invalid response from portal")
)

// APIError is an HTTP error status returned by the portal.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal error (status %d) for %s: %s", e.StatusCode, e.Path, e.Message)
}

// IsNotFound returns true if the error indicates the object was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 429
}
