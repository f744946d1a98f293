package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error categories. Callers branch on these with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrAuth         = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidState = errors.New("invalid state")
	ErrDependency   = errors.New("dependency failure")
)

// AppError carries the category, a client-safe message and the HTTP status
// the transport layer should map it to.
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	HTTPStatus int               `json:"-"`
	Details    map[string]string `json:"details,omitempty"`
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

// Validation marks caller input errors. Not retryable without fixing input.
func Validation(message string, details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Conflict marks a slot taken between read and write. Retryable after
// re-fetching availability.
func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Message:    message,
		Code:       "CONFLICT",
		HTTPStatus: http.StatusConflict,
	}
}

func Auth(message string) *AppError {
	return &AppError{
		Err:        ErrAuth,
		Message:    message,
		Code:       "UNAUTHORIZED",
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Code:       "NOT_FOUND",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]string{"resource": resource, "id": id},
	}
}

// InvalidState marks an operation that is illegal for the entity's current
// status, e.g. cancelling an already-cancelled appointment.
func InvalidState(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidState,
		Message:    message,
		Code:       "INVALID_STATE",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// Dependency wraps storage or transport failures. Retryable with backoff.
func Dependency(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrDependency, err),
		Message:    "a backing service is unavailable",
		Code:       "DEPENDENCY_ERROR",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}
