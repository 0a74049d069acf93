package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the client packages.
var (
	// ErrUnauthenticated is returned by operations that require a logged-in
	// user when no user is present.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound is wrapped by APIError for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is wrapped by APIError for 403 responses.
	ErrForbidden = errors.New("forbidden")
)

// APIError is a non-2xx backend response normalized into an error. Message
// carries the server-supplied "message" field when the error body was
// parseable JSON, otherwise a generic fallback for the operation.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is maps well-known status codes onto sentinel errors so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == 404
	case ErrForbidden:
		return e.StatusCode == 403
	case ErrUnauthenticated:
		return e.StatusCode == 401
	}
	return false
}

// NewAPIError builds an APIError, substituting fallback when the server
// message is empty.
func NewAPIError(status int, message, fallback string) *APIError {
	if message == "" {
		message = fallback
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{StatusCode: status, Message: message}
}
