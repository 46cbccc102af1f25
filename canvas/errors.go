package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid canvas configuration")
	// ErrTransport indicates a failed request: network, status or pagination
	ErrTransport = errors.New("canvas request failed")
	// ErrPagination indicates a Link header that cannot be followed
	ErrPagination = errors.New("malformed pagination header")
)

// maxBodyExcerpt bounds how much of an error body ends up in messages.
const maxBodyExcerpt = 512

// APIError represents a non-2xx Canvas response
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	return fmt.Sprintf("canvas API error: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	return ErrTransport
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// PaginationError describes why a Link header could not be used.
type PaginationError struct {
	Header string
	Reason string
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("malformed pagination header %q: %s", e.Header, e.Reason)
}

// Unwrap lets callers match both ErrPagination and ErrTransport.
func (e *PaginationError) Unwrap() []error {
	return []error{ErrPagination, ErrTransport}
}

func newAPIError(method, url string, status int, body []byte) *APIError {
	excerpt := strings.TrimSpace(string(body))
	if len(excerpt) > maxBodyExcerpt {
		excerpt = excerpt[:maxBodyExcerpt] + "..."
	}
	return &APIError{
		StatusCode: status,
		Method:     method,
		URL:        url,
		Message:    errorMessage(body),
		Body:       excerpt,
	}
}

// errorMessage extracts the human readable part of a Canvas error body,
// which comes as {"errors": [{"message": "..."}]} or {"message": "..."}.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	msgs := make([]string, 0, len(payload.Errors))
	for _, e := range payload.Errors {
		if e.Message != "" {
			msgs = append(msgs, e.Message)
		}
	}
	return strings.Join(msgs, "; ")
}
