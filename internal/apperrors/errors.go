package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is not in a state that allows the requested action.
var ErrConflict = errors.New("state conflict")

// ErrForbidden indicates that the caller lacks the role or ownership required for an action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates that the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected failure that should not be exposed to clients.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and an optional cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause so errors.Is keeps working through repository wrappers.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error code.
func (e *AppError) Is(target error) bool {
	switch e.Code {
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusBadRequest:
		return target == ErrValidation
	case http.StatusConflict:
		return target == ErrConflict
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusInternalServerError:
		return target == ErrInternal
	}
	return false
}

// NewNotFoundError returns a 404 AppError.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

// NewValidationError returns a 400 AppError.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

// NewConflictError returns a 409 AppError.
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, nil)
}

// NewForbiddenError returns a 403 AppError.
func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, nil)
}
