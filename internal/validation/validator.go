package validation

import (
	"strings"
	"unicode/utf8"

	"tasks-api/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance using default limits
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks that the trimmed string has between min and max
// characters. A max of zero or less means no upper bound.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	if length < min {
		return false
	}
	return max <= 0 || length <= max
}

// IsValidQueryLength checks a listing filter against the configured bounds.
// The filter is used verbatim, so it is measured without trimming.
func (v *Validator) IsValidQueryLength(q string) bool {
	length := utf8.RuneCountInString(q)
	return length >= v.getQueryMinLength() && length <= v.getQueryMaxLength()
}

// IsValidTextLength checks task text against the configured maximum
func (v *Validator) IsValidTextLength(text string) bool {
	return v.IsValidStringLength(text, 1, v.getTextMaxLength())
}

// IsValidOffset checks that a page offset is not negative
func (v *Validator) IsValidOffset(offset int) bool {
	return offset >= 0
}

// IsValidLimit checks that a page size is between 1 and the configured maximum
func (v *Validator) IsValidLimit(limit int) bool {
	return limit >= 1 && limit <= v.getMaxLimit()
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// getQueryMinLength returns configured minimum filter length or default
func (v *Validator) getQueryMinLength() int {
	if v.config != nil {
		return v.config.Validation.QueryMinLength
	}
	return 1
}

// getQueryMaxLength returns configured maximum filter length or default
func (v *Validator) getQueryMaxLength() int {
	if v.config != nil {
		return v.config.Validation.QueryMaxLength
	}
	return 50
}

// getTextMaxLength returns configured maximum task text length, zero meaning unbounded
func (v *Validator) getTextMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TextMaxLength
	}
	return 0
}

// getMaxLimit returns configured maximum page size or default
func (v *Validator) getMaxLimit() int {
	if v.config != nil {
		return v.config.Pagination.MaxLimit
	}
	return 50
}

// getDefaultLimit returns configured default page size or default
func (v *Validator) getDefaultLimit() int {
	if v.config != nil {
		return v.config.Pagination.DefaultLimit
	}
	return 5
}
