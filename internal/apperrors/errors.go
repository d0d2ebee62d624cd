package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is implemented by every error the storefront surfaces to callers.
// Handlers use Category and HTTPStatus to build the response.
type AppError interface {
	error
	Category() string
	HTTPStatus() int
}

// ValidationError reports a missing or invalid required field.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("validation failed: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest }

// NewValidationError creates a validation error without per-field details.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// NewFieldValidationError creates a validation error carrying one message per field.
func NewFieldValidationError(msg string, fields map[string]string) *ValidationError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// NoActiveOrderError is returned when an order operation needs an active order and there is none.
type NoActiveOrderError struct{}

func (e *NoActiveOrderError) Error() string    { return "no active order" }
func (e *NoActiveOrderError) Category() string { return "NO_ACTIVE_ORDER" }
func (e *NoActiveOrderError) HTTPStatus() int  { return http.StatusConflict }

// ErrNoActiveOrder is the shared NoActiveOrderError value.
var ErrNoActiveOrder = &NoActiveOrderError{}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("not found: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{Msg: msg}
}

// UnauthorizedError is returned when a request carries no usable session.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("unauthorized: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized }

// NewUnauthorizedError creates a new unauthorized error.
func NewUnauthorizedError(msg string) *UnauthorizedError {
	return &UnauthorizedError{Msg: msg}
}

// InternalError wraps an unexpected failure from storage or infrastructure.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string    { return fmt.Sprintf("internal error: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError wraps err with a message safe to show to clients.
func NewInternalError(msg string, err error) *InternalError {
	return &InternalError{Msg: msg, Err: err}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNoActiveOrder reports whether err is, or wraps, a NoActiveOrderError.
func IsNoActiveOrder(err error) bool {
	var target *NoActiveOrderError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// MapToHTTPStatus translates err into the status code, category and message of the response.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "an unexpected error occurred"
}
