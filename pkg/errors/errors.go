package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error code surfaced to API clients.
type Code string

const (
	CodeValidation      Code = "validation_error"
	CodeDuplicate       Code = "duplicate"
	CodeUnavailable     Code = "unavailable"
	CodePermission      Code = "permission_denied"
	CodeAuth            Code = "authentication_failed"
	CodeNotFound        Code = "not_found"
	CodeInvalidToken    Code = "invalid_token"
	CodeAlreadyVerified Code = "already_verified"
	CodeInternal        Code = "internal_error"
)

// AppError represents an application error
type AppError struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
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

// StatusCode maps the error code to the HTTP status the API contract uses.
// Conflicts are 400 on purpose: clients distinguish them by Code, not status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeValidation, CodeDuplicate, CodeUnavailable, CodeInvalidToken, CodeAlreadyVerified:
		return http.StatusBadRequest
	case CodeAuth:
		return http.StatusUnauthorized
	case CodePermission:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func NewValidation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewValidationFields(fields map[string]string) *AppError {
	return &AppError{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

func NewFieldValidation(field, problem string) *AppError {
	return NewValidationFields(map[string]string{field: problem})
}

func NewDuplicate(message string) *AppError {
	return &AppError{Code: CodeDuplicate, Message: message}
}

func NewUnavailable(message string) *AppError {
	return &AppError{Code: CodeUnavailable, Message: message}
}

func NewPermission(message string) *AppError {
	return &AppError{Code: CodePermission, Message: message}
}

func NewAuth(message string) *AppError {
	return &AppError{Code: CodeAuth, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func NewInvalidToken(message string) *AppError {
	return &AppError{Code: CodeInvalidToken, Message: message}
}

func NewAlreadyVerified(message string) *AppError {
	return &AppError{Code: CodeAlreadyVerified, Message: message}
}

func NewInternal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal server error", Err: err}
}

// AsAppError unwraps err to the first AppError in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
