// Package apperr classifies the errors the content pipeline surfaces so that
// the HTTP layer and the CLI can map them to status codes and exit paths.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the broad category of an error.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindAlreadyExists    Kind = "already_exists"
	KindBuild            Kind = "build"
	KindStoreUnavailable Kind = "store_unavailable"
	KindInternal         Kind = "internal"
)

// Error is a classified error with an optional cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error category.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message without the cause.
func (e *Error) Message() string { return e.message }

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), cause: cause}
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, nil, format, args...)
}

func AlreadyExists(format string, args ...any) *Error {
	return newError(KindAlreadyExists, nil, format, args...)
}

// Build wraps a build step failure. The cause text is kept verbatim.
func Build(cause error, format string, args ...any) *Error {
	return newError(KindBuild, cause, format, args...)
}

func StoreUnavailable(cause error, format string, args ...any) *Error {
	return newError(KindStoreUnavailable, cause, format, args...)
}

func Internal(cause error, format string, args ...any) *Error {
	return newError(KindInternal, cause, format, args...)
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether any classified error in err's chain has the kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.kind == kind {
			return true
		}
		err = e.cause
	}
	return false
}

// StatusCode maps an error to an HTTP status. Unclassified errors are 500.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
