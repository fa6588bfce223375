package errors

import (
	stdErrors "errors"
	"fmt"
)

// NetworkError is returned when an upstream request fails at the transport level
// or completes with a non-success status code.
type NetworkError struct {
	Op         string // operation name, e.g. "search", "work", "author"
	URL        string
	StatusCode int // zero when the request never got a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: network response was not ok (HTTP %d)", e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: request failed", e.Op)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a NetworkError for a transport-level failure.
func NewNetworkError(op, url string, err error) *NetworkError {
	return &NetworkError{Op: op, URL: url, Err: err}
}

// NewStatusError creates a NetworkError for a non-2xx response.
func NewStatusError(op, url string, statusCode int) *NetworkError {
	return &NetworkError{Op: op, URL: url, StatusCode: statusCode}
}

// IsNetworkError reports whether err is a NetworkError (even when wrapped).
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return stdErrors.As(err, &netErr)
}
