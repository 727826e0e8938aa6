// Package errors provides the application-level error taxonomy shared by
// every service, the HTTP edge, and the Telegram bot edge.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType identifies the surface-facing kind of an AppError.
type ErrorType string

const (
	ErrorTypeUnauthenticated ErrorType = "unauthenticated"
	ErrorTypeForbidden       ErrorType = "forbidden"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeRateOrReplay    ErrorType = "rate_or_replay"
	ErrorTypeInternal        ErrorType = "internal_error"
)

// AppError is a typed error carrying enough context to render a stable
// HTTP envelope or a user-safe bot alert.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newError(t ErrorType, message string, details ...string) *AppError {
	d := ""
	if len(details) > 0 {
		d = details[0]
	}
	return &AppError{Type: t, Message: message, Details: d}
}

func NewUnauthenticatedError(message string, details ...string) *AppError {
	return newError(ErrorTypeUnauthenticated, message, details...)
}

func NewForbiddenError(message string, details ...string) *AppError {
	return newError(ErrorTypeForbidden, message, details...)
}

func NewNotFoundError(message string, details ...string) *AppError {
	return newError(ErrorTypeNotFound, message, details...)
}

func NewConflictError(message string, details ...string) *AppError {
	return newError(ErrorTypeConflict, message, details...)
}

func NewValidationError(message string, details ...string) *AppError {
	return newError(ErrorTypeValidation, message, details...)
}

func NewRateOrReplayError(message string, details ...string) *AppError {
	return newError(ErrorTypeRateOrReplay, message, details...)
}

func NewInternalError(message string, details ...string) *AppError {
	return newError(ErrorTypeInternal, message, details...)
}

// IsAppError reports whether err (or something it wraps) is an *AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts the *AppError from err, or nil if none is present.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func Is(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsConflictError(err error) bool      { return Is(err, ErrorTypeConflict) }
func IsNotFoundError(err error) bool      { return Is(err, ErrorTypeNotFound) }
func IsValidationError(err error) bool    { return Is(err, ErrorTypeValidation) }
func IsForbiddenError(err error) bool     { return Is(err, ErrorTypeForbidden) }
func IsUnauthenticatedError(err error) bool { return Is(err, ErrorTypeUnauthenticated) }
func IsRateOrReplayError(err error) bool  { return Is(err, ErrorTypeRateOrReplay) }

// HTTPStatus maps an ErrorType onto the HTTP status code the gin edge
// should use when rendering the error envelope.
func HTTPStatus(t ErrorType) int {
	switch t {
	case ErrorTypeUnauthenticated:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeRateOrReplay:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
