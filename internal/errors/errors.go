// Package errors defines the structured error taxonomy surfaced to API callers.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Code identifies an error category. Codes are stable and appear verbatim in
// API responses.
type Code string

const (
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeInvalidOperation   Code = "invalid_operation"
	CodeRateLimited        Code = "rate_limited"
	CodeInternal           Code = "internal"
)

// ServiceError is an error with an HTTP status and a stable code. Messages are
// safe to return to callers; wrap internal causes with Internal so their text
// never leaves the process.
type ServiceError struct {
	Code       Code           `json:"error"`
	Message    string         `json:"message,omitempty"`
	HTTPStatus int            `json:"status"`
	Details    map[string]any `json:"details,omitempty"`

	cause error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code)
}

// Unwrap exposes the internal cause for errors.Is/As chains. The cause is
// never serialized.
func (e *ServiceError) Unwrap() error {
	return e.cause
}

// WithDetails attaches a key/value pair to the error and returns it.
func (e *ServiceError) WithDetails(key string, value any) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// InvalidCredentials signals a failed login attempt.
func InvalidCredentials() *ServiceError {
	return &ServiceError{Code: CodeInvalidCredentials, Message: "invalid credentials", HTTPStatus: http.StatusUnauthorized}
}

// Unauthorized signals a missing or expired session.
func Unauthorized(message string) *ServiceError {
	if message == "" {
		message = "missing or expired session"
	}
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// Forbidden signals a valid session without access to the requested resource.
func Forbidden(message string) *ServiceError {
	return &ServiceError{Code: CodeForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

// NotFound signals an unknown app, command, or route parameter.
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// InvalidOperation signals a domain-rule violation such as insufficient funds.
func InvalidOperation(message string) *ServiceError {
	return &ServiceError{Code: CodeInvalidOperation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// RateLimited signals too many requests from one client.
func RateLimited() *ServiceError {
	return &ServiceError{Code: CodeRateLimited, Message: "too many requests", HTTPStatus: http.StatusTooManyRequests}
}

// Internal wraps an unexpected failure. The cause is retained for logging but
// the serialized error carries only a generic message.
func Internal(cause error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: "internal error", HTTPStatus: http.StatusInternalServerError, cause: cause}
}

// GetServiceError returns the ServiceError in err's chain, or nil.
func GetServiceError(err error) *ServiceError {
	var se *ServiceError
	if stderrors.As(err, &se) {
		return se
	}
	return nil
}
