package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeUnknownService  ErrorType = "unknown_service"
	ErrorTypeMalformedField  ErrorType = "malformed_field"
	ErrorTypeMalformedDoc    ErrorType = "malformed_document"
	ErrorTypeExternalService ErrorType = "external_service"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeInternal        ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	Field      string    `json:"field,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewUnknownServiceError reports a service choice that matches no schema.
// suggestion names the closest known choice and may be empty.
func NewUnknownServiceError(service, suggestion string) *AppError {
	err := &AppError{
		Type:       ErrorTypeUnknownService,
		Message:    fmt.Sprintf("unknown service %q", service),
		StatusCode: http.StatusBadRequest,
	}
	if suggestion != "" {
		err.Details = fmt.Sprintf("did you mean %q?", suggestion)
	}
	return err
}

// NewUnknownInputMethodError reports an input method other than file or url
func NewUnknownInputMethodError(method string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnknownService,
		Message:    fmt.Sprintf("unknown input method %q", method),
		Details:    `expected "file" or "url"`,
		StatusCode: http.StatusBadRequest,
	}
}

// NewMalformedFieldError reports a single field entry that cannot be interpreted
func NewMalformedFieldError(field string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeMalformedField,
		Message:    fmt.Sprintf("malformed field %q", field),
		Field:      field,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewMalformedDocumentError reports a document that cannot be normalized at all
func NewMalformedDocumentError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeMalformedDoc,
		Message:    "malformed document",
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewExternalServiceError wraps a failure of the document analysis service.
// The cause stays reachable through errors.As.
func NewExternalServiceError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternalService,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Cause:      cause,
	}
}

// IsType checks if the error, or any error it wraps, is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
