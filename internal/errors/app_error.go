package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeStorage      = "STORAGE_ERROR"
	ErrCodeNetwork      = "NETWORK_ERROR"
	ErrCodeTimeout      = "TIMEOUT_ERROR"
	ErrCodeServer       = "SERVER_ERROR"
	ErrCodeBusinessRule = "BUSINESS_RULE_ERROR"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func StorageError(message string) *AppError {
	return NewAppError(ErrCodeStorage, message, http.StatusInternalServerError)
}

// NetworkError covers requests that never produced an HTTP response:
// connection refused, DNS failure, reset mid-flight.
func NetworkError(message string) *AppError {
	return NewAppError(ErrCodeNetwork, message, http.StatusBadGateway)
}

// TimeoutError is reported separately from NetworkError so callers can tell
// "backend unreachable" apart from "backend too slow".
func TimeoutError(message string) *AppError {
	return NewAppError(ErrCodeTimeout, message, http.StatusGatewayTimeout)
}

func ServerError(message string) *AppError {
	return NewAppError(ErrCodeServer, message, http.StatusBadGateway)
}

// BusinessRuleError carries a backend rejection (e.g. an invalid status
// transition) verbatim; it is never retried or masked.
func BusinessRuleError(message string) *AppError {
	return NewAppError(ErrCodeBusinessRule, message, http.StatusUnprocessableEntity)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == code
	}

	return false
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
