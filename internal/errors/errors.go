package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewUpstreamUnavailableError is returned when an outbound call fails at the
// transport level or answers with a non-success status.
func NewUpstreamUnavailableError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstreamUnavailable,
		Message: fmt.Sprintf("upstream request failed: %s", operation),
		Code:    "UPSTREAM_UNAVAILABLE",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewUpstreamStatusError reports a non-success HTTP status from an upstream.
func NewUpstreamStatusError(operation string, status int) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstreamUnavailable,
		Message: fmt.Sprintf("upstream request failed: %s returned HTTP %d", operation, status),
		Code:    "UPSTREAM_STATUS",
		Context: map[string]interface{}{
			"operation": operation,
			"status":    status,
		},
	}
}

// NewUpstreamFormatError creates an error for an upstream payload that cannot
// be interpreted.
func NewUpstreamFormatError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstreamFormat,
		Message: message,
		Code:    "UPSTREAM_FORMAT_INVALID",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewCacheError creates a new cache storage error
func NewCacheError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeCache,
		Message: fmt.Sprintf("cache operation failed: %s", operation),
		Code:    "CACHE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// NewInternalError wraps an unexpected fault raised while serving a request.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Code:    "INTERNAL_ERROR",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns the message exposed to HTTP and CLI callers.
// Upstream failures keep their message so clients can tell an unreachable
// sheet from a malformed one.
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeUpstreamUnavailable, ErrorTypeUpstreamFormat:
			return appErr.Message
		case ErrorTypeCache:
			return "A cache error occurred. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		case ErrorTypeInternal:
			if appErr.Cause != nil {
				return appErr.Cause.Error()
			}
			return appErr.Message
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// HTTPStatus maps an error onto the status code returned to callers.
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			return http.StatusBadRequest
		case ErrorTypeNotFound:
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound:
			return false // These are caller errors, not system errors
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}
