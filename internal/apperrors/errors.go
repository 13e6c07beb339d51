// Package apperrors defines the closed set of failure kinds the service
// layer may return. Handlers map kinds to HTTP status codes; nothing below
// the handler layer knows about HTTP.
package apperrors

import "fmt"

// Kind classifies an application error
type Kind int

const (
	// KindValidation marks malformed or out-of-bound input
	KindValidation Kind = iota
	// KindNotFound marks a referenced entity missing within its claimed scope
	KindNotFound
	// KindUnauthorized marks a caller identity that does not match the resource owner
	KindUnauthorized
	// KindInternal marks an unexpected fault, usually from a store
	KindInternal
)

// Error is a tagged application error carrying a human-readable message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a validation error with the given message
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound returns a not-found error with the given message
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Unauthorized returns an unauthorized error with the given message
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Internal wraps an unexpected fault
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
