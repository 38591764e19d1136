// Package apperror defines the error kinds the HTTP boundary maps to
// responses. Services translate store sentinels into these kinds; the
// mapping to status codes lives in a single place in httpapi.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream unavailable")
	ErrRateLimited  = errors.New("upstream rate limited")
)

// Error couples an error kind with a human-readable message.
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

func NotFound(resource string, id any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %v not found", resource, id)}
}

func Validation(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

func Upstream(source string, err error) *Error {
	return &Error{Kind: ErrUpstream, Message: fmt.Sprintf("%s unavailable: %v", source, err)}
}

func RateLimited(source string) *Error {
	return &Error{Kind: ErrRateLimited, Message: fmt.Sprintf("%s rate limit exceeded", source)}
}
