// Package errors defines the service error taxonomy and its HTTP mapping.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of service error.
type ErrorCode string

const (
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeAuthentication ErrorCode = "AUTHENTICATION_ERROR"
	CodeAuthorization  ErrorCode = "AUTHORIZATION_ERROR"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeRateLimited    ErrorCode = "RATE_LIMITED"
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// ServiceError carries a stable code, a caller-safe message, and the HTTP
// status the transport layer should respond with. Internal detail stays in
// the wrapped cause and is logged, never returned to the caller.
type ServiceError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	cause      error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.cause }

// Validation reports malformed or out-of-range input.
func Validation(message string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) *ServiceError {
	return Validation(fmt.Sprintf(format, args...))
}

// Unauthorized reports a missing, invalid, or expired credential.
func Unauthorized(message string) *ServiceError {
	return &ServiceError{Code: CodeAuthentication, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// Forbidden reports an authenticated but disallowed request.
func Forbidden(message string) *ServiceError {
	return &ServiceError{Code: CodeAuthorization, Message: message, HTTPStatus: http.StatusForbidden}
}

// NotFound reports a resource id that does not resolve.
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Conflict reports a uniqueness violation. Surfaced as 400 rather than 409:
// callers treat a duplicate email the same as any other bad input.
func Conflict(message string) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: message, HTTPStatus: http.StatusBadRequest}
}

// RateLimitExceeded reports that the caller exceeded the request budget.
func RateLimitExceeded() *ServiceError {
	return &ServiceError{Code: CodeRateLimited, Message: "rate limit exceeded", HTTPStatus: http.StatusTooManyRequests}
}

// Internal reports an unexpected failure. The cause is retained for logging
// but the message is all the caller sees.
func Internal(message string, cause error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, cause: cause}
}

// InvalidToken reports a token that failed signature or expiry checks.
func InvalidToken(cause error) *ServiceError {
	return &ServiceError{Code: CodeAuthentication, Message: "invalid or expired token", HTTPStatus: http.StatusUnauthorized, cause: cause}
}

// GetServiceError extracts a *ServiceError from err's chain, or nil.
func GetServiceError(err error) *ServiceError {
	var serviceErr *ServiceError
	if stderrors.As(err, &serviceErr) {
		return serviceErr
	}
	return nil
}

// HTTPStatus returns the status for err, defaulting to 500 for plain errors.
func HTTPStatus(err error) int {
	if serviceErr := GetServiceError(err); serviceErr != nil {
		return serviceErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
