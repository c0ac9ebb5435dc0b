package cli

import (
	"fmt"

	"tasks-api/internal/errors"
	"tasks-api/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	return fmt.Errorf("failed to %s: %s", operation, eh.message(err))
}

// HandleTask is Handle for commands that address one task by id. Missing
// and deleted tasks get a hint the user can act on.
func (eh *ErrorHandler) HandleTask(operation string, err error) error {
	handled := eh.Handle(operation, err)
	switch {
	case eh.IsNotFoundError(err):
		return fmt.Errorf("%w (run 'tasks list' to see task ids)", handled)
	case eh.IsConflictError(err):
		return fmt.Errorf("%w (deleted tasks cannot be changed)", handled)
	}
	return handled
}

// message picks the most specific text for err. Field-level validation
// messages win over the summary carried by the wrapping AppError.
func (eh *ErrorHandler) message(err error) string {
	if err == nil {
		return "unknown error"
	}
	if validationErr, ok := validation.AsValidationError(err); ok && validationErr.HasErrors() {
		return validationErr.GetUserFriendlyMessage()
	}
	if errors.IsAppError(err) {
		return errors.GetUserMessage(err)
	}
	return err.Error()
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsConflictError checks if an error is a conflict error
func (eh *ErrorHandler) IsConflictError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeConflict)
}
