package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors returned by services and mapped to HTTP statuses at the
// controller boundary.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("resource conflict")
	ErrGone         = errors.New("resource no longer available")
	ErrInternal     = errors.New("internal error")
)

// AppError carries a user-facing message and an HTTP status alongside the
// underlying error.
type AppError struct {
	Err        error
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// New wraps a sentinel with a message. The status is derived from the
// sentinel unless overridden via WithStatus.
func New(sentinel error, message string) *AppError {
	return &AppError{Err: sentinel, Message: message, StatusCode: StatusCode(sentinel)}
}

func (e *AppError) WithStatus(code int) *AppError {
	e.StatusCode = code
	return e
}

// StatusCode maps an error to the HTTP status a route should answer with.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrGone):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
