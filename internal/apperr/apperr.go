// Package apperr is the error taxonomy shared by services and handlers.
// Every failure that reaches a request boundary is an *Error whose Kind
// decides the HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
	KindReferential
	KindRateLimited
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	case KindReferential:
		return "referential"
	case KindRateLimited:
		return "rate_limited"
	case KindDependency:
		return "dependency"
	default:
		return "internal"
	}
}

// Codes that clients match on.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidState         = "INVALID_STATE"
	CodeNoActiveService      = "NO_ACTIVE_SERVICE"
	CodeDuplicateQueueNumber = "DUPLICATE_QUEUE_NUMBER"
	CodeInvalidAdmin         = "INVALID_ADMIN"
	CodeInvalidLink          = "INVALID_LINK"
	CodeQueueClosed          = "QUEUE_CLOSED"
	CodeInUse                = "IN_USE"
	CodeRateLimited          = "RATE_LIMITED"
	CodeDependency           = "DEPENDENCY_ERROR"
	CodeInternal             = "INTERNAL_ERROR"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and Code so that callers can compare against the
// sentinel-shaped values returned by New.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}

func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, CodeValidation, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, CodeNotFound, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, CodeForbidden, message)
}

func Unauthorized(message string) *Error {
	return New(KindAuth, CodeUnauthorized, message)
}

func InvalidState(message string) *Error {
	return New(KindInvalidState, CodeInvalidState, message)
}

func Dependency(message string, err error) *Error {
	return Wrap(KindDependency, CodeDependency, message, err)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, CodeInternal, message, err)
}

// KindOf reports the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// From converts any error into an *Error, keeping it as is when possible.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("terjadi kesalahan internal", err)
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindInvalidState, KindReferential:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindDependency, KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
