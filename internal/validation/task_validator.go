package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tasks-api/internal/config"
	"tasks-api/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator with default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateTaskText validates task text for creation or update
func (tv *TaskValidator) ValidateTaskText(text string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(text)
	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("text")
		return validationError
	}

	if !tv.validator.IsValidTextLength(trimmed) {
		validationError.AddInvalidLengthError("text", trimmed, 1, tv.validator.getTextMaxLength())
	}

	return validationError.ErrOrNil()
}

// GetValidTaskText returns the trimmed text if valid
func (tv *TaskValidator) GetValidTaskText(text string) (string, error) {
	if err := tv.ValidateTaskText(text); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(text), nil
}

// ValidateStatus parses a status name
func (tv *TaskValidator) ValidateStatus(s string) (domain.TaskStatus, error) {
	status, ok := domain.ParseTaskStatus(s)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("status", s, "must be one of "+statusList())
		return "", validationError
	}
	return status, nil
}

// ValidateTaskID parses a task ID
func (tv *TaskValidator) ValidateTaskID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("id", id, "UUID")
		return uuid.Nil, validationError
	}
	return parsed, nil
}

// ValidateListQuery checks listing parameters at the caller boundary
func (tv *TaskValidator) ValidateListQuery(text *string, offset, limit int) error {
	validationError := NewValidationError()

	if text != nil && !tv.validator.IsValidQueryLength(*text) {
		validationError.AddInvalidLengthError("query", *text,
			tv.validator.getQueryMinLength(), tv.validator.getQueryMaxLength())
	}
	if !tv.validator.IsValidOffset(offset) {
		validationError.AddInvalidRangeError("offset", offset, "must be greater than or equal to 0")
	}
	if !tv.validator.IsValidLimit(limit) {
		validationError.AddInvalidRangeError("limit", limit,
			fmt.Sprintf("must be between 1 and %d", tv.validator.getMaxLimit()))
	}

	return validationError.ErrOrNil()
}

// DefaultLimit is the page size applied when the caller gives none
func (tv *TaskValidator) DefaultLimit() int {
	return tv.validator.getDefaultLimit()
}

func statusList() string {
	names := make([]string, len(domain.TaskStatuses))
	for i, s := range domain.TaskStatuses {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
