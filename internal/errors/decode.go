package errors

import (
	stdErrors "errors"
	"fmt"
)

// DecodeError is returned when a response body cannot be parsed into the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: failed to decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a DecodeError for the given operation.
func NewDecodeError(op string, err error) *DecodeError {
	return &DecodeError{Op: op, Err: err}
}

// IsDecodeError reports whether err is a DecodeError (even when wrapped).
func IsDecodeError(err error) bool {
	var decErr *DecodeError
	return stdErrors.As(err, &decErr)
}

// Message returns the human-readable text shown to the user for a failed operation.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
