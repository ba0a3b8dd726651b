// Package apperr defines the error kinds surfaced to API clients.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks malformed client input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a request that collides with existing state.
	ErrConflict = errors.New("conflict")

	// ErrAuth marks bad credentials or a missing/stale session.
	ErrAuth = errors.New("unauthorized")

	// ErrUnavailable marks a transient failure that is safe to retry.
	ErrUnavailable = errors.New("unavailable")
)

// Error carries a client-facing message and unwraps to its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Auth(msg string) error {
	return &Error{Kind: ErrAuth, Message: msg}
}

func Unavailable(msg string) error {
	return &Error{Kind: ErrUnavailable, Message: msg}
}

// Status maps err to the HTTP status code it should be reported with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for err. Errors without a kind
// never leak their details.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Server error"
}
