package validation

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		contains string
	}{
		{"no errors", []FieldError{}, "validation error"},
		{"single error", []FieldError{{Field: "text", Message: "is required"}}, "validation error for field 'text': is required"},
		{"multiple errors", []FieldError{
			{Field: "offset", Message: "is out of range"},
			{Field: "limit", Message: "is out of range"},
		}, "multiple validation errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			if result := ve.Error(); !strings.Contains(result, tt.contains) {
				t.Errorf("Error() = %q, expected to contain %q", result, tt.contains)
			}
		})
	}
}

func TestValidationError_Adders(t *testing.T) {
	tests := []struct {
		name     string
		add      func(*ValidationError)
		wantType ValidationErrorType
		contains string
	}{
		{"required", func(ve *ValidationError) { ve.AddRequiredError("text") }, ErrorTypeRequired, "text is required"},
		{"format", func(ve *ValidationError) { ve.AddInvalidFormatError("id", "abc", "UUID") }, ErrorTypeInvalidFormat, "expected: UUID"},
		{"length range", func(ve *ValidationError) { ve.AddInvalidLengthError("query", "", 1, 50) }, ErrorTypeInvalidLength, "between 1 and 50"},
		{"length min only", func(ve *ValidationError) { ve.AddInvalidLengthError("text", "", 1, 0) }, ErrorTypeInvalidLength, "at least 1"},
		{"length max only", func(ve *ValidationError) { ve.AddInvalidLengthError("text", "", 0, 10) }, ErrorTypeInvalidLength, "at most 10"},
		{"value", func(ve *ValidationError) { ve.AddInvalidValueError("status", "x", "unknown") }, ErrorTypeInvalidValue, "invalid value: unknown"},
		{"range", func(ve *ValidationError) { ve.AddInvalidRangeError("limit", 0, "too small") }, ErrorTypeInvalidRange, "out of range: too small"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := NewValidationError()
			tt.add(ve)

			if len(ve.Errors) != 1 {
				t.Fatalf("Expected 1 error, got %d", len(ve.Errors))
			}
			if ve.Errors[0].Type != tt.wantType {
				t.Errorf("Expected error type %v, got %v", tt.wantType, ve.Errors[0].Type)
			}
			if !strings.Contains(ve.Errors[0].Message, tt.contains) {
				t.Errorf("Expected message to contain %q, got %q", tt.contains, ve.Errors[0].Message)
			}
		})
	}
}

func TestValidationError_ErrOrNil(t *testing.T) {
	ve := NewValidationError()
	if err := ve.ErrOrNil(); err != nil {
		t.Errorf("ErrOrNil() = %v, expected nil for empty collection", err)
	}

	ve.AddRequiredError("text")
	if err := ve.ErrOrNil(); err == nil {
		t.Error("ErrOrNil() = nil, expected error")
	}
}

func TestValidationError_Merge(t *testing.T) {
	other := NewValidationError()
	other.AddRequiredError("text")
	other.AddRequiredError("status")

	ve := NewValidationError()
	ve.AddRequiredError("id")
	ve.Merge(other)
	ve.Merge(fmt.Errorf("plain error"))
	ve.Merge(nil)

	if len(ve.Errors) != 3 {
		t.Errorf("Expected 3 errors after merge, got %d", len(ve.Errors))
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	empty := &ValidationError{}
	if got := empty.GetUserFriendlyMessage(); got != "Input validation failed" {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}

	single := &ValidationError{Errors: []FieldError{{Field: "text", Message: "text is required"}}}
	if got := single.GetUserFriendlyMessage(); got != "text is required" {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}

	multi := &ValidationError{Errors: []FieldError{{Message: "a"}, {Message: "b"}}}
	got := multi.GetUserFriendlyMessage()
	if !strings.Contains(got, "Multiple validation errors occurred") || !strings.Contains(got, "- b") {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("text")

	if !IsValidationError(ve) {
		t.Error("IsValidationError() = false, expected true for ValidationError")
	}
	if !IsValidationError(fmt.Errorf("wrapped: %w", ve)) {
		t.Error("IsValidationError() = false, expected true for wrapped ValidationError")
	}
	if IsValidationError(&FieldError{Field: "test", Message: "error"}) {
		t.Error("IsValidationError() = true, expected false for FieldError")
	}
}
