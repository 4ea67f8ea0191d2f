package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError. Callers pick a response per kind.
type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "UNAUTHENTICATED"
	KindForbidden       ErrorKind = "FORBIDDEN"
	KindValidation      ErrorKind = "VALIDATION_ERROR"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindInternal        ErrorKind = "INTERNAL_ERROR"
	KindUnavailable     ErrorKind = "SERVICE_UNAVAILABLE"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// AppError is the error type returned by services.
type AppError struct {
	Kind    ErrorKind
	Message string
	Details []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError of the same kind, so errors.Is(err, ErrForbidden) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Kind sentinels for errors.Is.
var (
	ErrUnauthenticated = &AppError{Kind: KindUnauthenticated}
	ErrForbidden       = &AppError{Kind: KindForbidden}
	ErrValidation      = &AppError{Kind: KindValidation}
	ErrNotFound        = &AppError{Kind: KindNotFound}
	ErrConflict        = &AppError{Kind: KindConflict}
	ErrInternal        = &AppError{Kind: KindInternal}
	ErrUnavailable     = &AppError{Kind: KindUnavailable}
)

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewValidationError(message string, details ...string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Details: details}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewInternalError wraps a storage or infrastructure fault. The message shown to
// callers is always generic.
func NewInternalError(err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewUnavailableError reports an optional collaborator that is not configured.
func NewUnavailableError(message string) *AppError {
	return &AppError{Kind: KindUnavailable, Message: message}
}

// KindOf reports the kind of err. Errors that are not AppErrors are internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
