package errors

import (
	"context"
	"errors"
	"fmt"
)

// Stable codes reported alongside each error type
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeDatabase         = "DATABASE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeTimeout          = "TIMEOUT"
	CodeConflict         = "CONFLICT"
)

func newAppError(errorType ErrorType, code, message string, cause error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    code,
		Cause:   cause,
		Context: details,
	}
}

// NewValidationError creates a new validation error. cause is usually a
// *validation.ValidationError listing the offending fields.
func NewValidationError(message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, CodeValidationFailed, message, cause, nil)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return newAppError(ErrorTypeNotFound, CodeNotFound,
		fmt.Sprintf("%s not found: %s", resource, identifier), nil,
		map[string]interface{}{"resource": resource, "identifier": identifier})
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return newAppError(ErrorTypeDatabase, CodeDatabase,
		fmt.Sprintf("database operation failed: %s", operation), cause,
		map[string]interface{}{"operation": operation})
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return newAppError(ErrorTypeInvalidInput, CodeInvalidInput,
		fmt.Sprintf("invalid input for %s: %s", field, reason), nil,
		map[string]interface{}{"field": field, "value": value, "reason": reason})
}

// NewTimeoutError reports an operation abandoned because its context ended
func NewTimeoutError(operation string, cause error) *AppError {
	return newAppError(ErrorTypeTimeout, CodeTimeout,
		fmt.Sprintf("operation timed out: %s", operation), cause,
		map[string]interface{}{"operation": operation})
}

// NewConflictError creates an error for a request that is well formed but
// cannot be applied to the resource in its current state.
func NewConflictError(resource string, identifier string, reason string) *AppError {
	return newAppError(ErrorTypeConflict, CodeConflict,
		fmt.Sprintf("%s %s: %s", resource, identifier, reason), nil,
		map[string]interface{}{"resource": resource, "identifier": identifier, "reason": reason})
}

// FromStorage classifies an error coming out of a storage call. AppErrors pass
// through unchanged, context cancellation becomes a timeout, and everything
// else is reported as a database failure.
func FromStorage(operation string, err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewTimeoutError(operation, err)
	}
	return NewDatabaseError(operation, err)
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

// GetUserMessage returns a message that is safe to show to a client
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		if appErr.Type.IsClientFault() {
			return appErr.Message
		}
		switch appErr.Type {
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
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

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return !appErr.Type.IsClientFault()
	}
	return true
}
