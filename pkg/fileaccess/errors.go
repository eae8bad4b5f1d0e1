package fileaccess

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all backends.
var (
	// ErrInvalidAddress indicates the identifier violates the address grammar
	// or an operation was attempted on an incompatible address shape.
	ErrInvalidAddress = errors.New("fileaccess: invalid address")

	// ErrNotFound indicates the addressed resource is absent. Read and Exists
	// surface absence as a value, not through this error; it exists for
	// backends to map their SDK's not-found conditions.
	ErrNotFound = errors.New("fileaccess: not found")

	// ErrNotSupported indicates the resolved backend does not implement the
	// requested capability.
	ErrNotSupported = errors.New("fileaccess: operation not supported")

	// ErrCompression indicates a codec failure, usually a malformed payload.
	ErrCompression = errors.New("fileaccess: compression failure")

	// ErrDecode indicates the payload is not valid text.
	ErrDecode = errors.New("fileaccess: payload is not valid UTF-8")
)

// Error carries the failed operation, the identifier involved and the backend
// kind alongside the underlying cause.
type Error struct {
	Op         string
	Identifier string
	Backend    Kind
	Err        error
}

func (e *Error) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("fileaccess %s: %s failed for %s: %v", e.Backend, e.Op, e.Identifier, e.Err)
	}
	return fmt.Sprintf("fileaccess %s: %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return errors.Is(e.Err, target) }

// NewError wraps err with operation context.
func NewError(op, identifier string, backend Kind, err error) error {
	return &Error{Op: op, Identifier: identifier, Backend: backend, Err: err}
}

// IsInvalidAddress checks if an error is an invalid address error.
func IsInvalidAddress(err error) bool { return errors.Is(err, ErrInvalidAddress) }

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsNotSupported checks if an error is a not supported error.
func IsNotSupported(err error) bool { return errors.Is(err, ErrNotSupported) }

// RetryableError marks an error as transient. Backends wrap failures that
// could succeed on a later attempt; anything unwrapped is permanent.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return fmt.Sprintf("retryable error: %v", e.Err) }

func (e *RetryableError) Unwrap() error { return e.Err }

// NewRetryableError creates a new retryable error.
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}

// IsRetryable checks if an error is marked transient.
func IsRetryable(err error) bool {
	var retryable *RetryableError
	return errors.As(err, &retryable)
}
