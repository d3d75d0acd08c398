package validation

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name        string
		errors      []FieldError
		expectError string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "taskKey", Message: "taskKey is required"}}, "invalid parameter 'taskKey': taskKey is required"},
		{"Multiple errors", []FieldError{
			{Field: "taskKey", Message: "taskKey is required"},
			{Field: "status", Message: "status is required"},
		}, "multiple validation errors: invalid parameter 'taskKey': taskKey is required; invalid parameter 'status': status is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			if result := ve.Error(); result != tt.expectError {
				t.Errorf("ValidationError.Error() = %v, expected %v", result, tt.expectError)
			}
		})
	}
}

func TestValidationError_AddErrors(t *testing.T) {
	ve := NewValidationError()
	if ve.HasErrors() {
		t.Fatal("new ValidationError should be empty")
	}

	ve.AddRequiredError("taskKey")
	ve.AddError("status", "other", "status is odd", "x")

	if len(ve.Errors) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(ve.Errors))
	}

	want := []ValidationErrorType{ErrorTypeRequired, "other"}
	for i, typ := range want {
		if ve.Errors[i].Type != typ {
			t.Errorf("Errors[%d].Type = %v, expected %v", i, ve.Errors[i].Type, typ)
		}
	}

	if got := ve.Errors[0].Message; got != "taskKey is required" {
		t.Errorf("unexpected required message %q", got)
	}

	if got := strings.Join(ve.Fields(), ","); got != "taskKey,status" {
		t.Errorf("Fields() = %q", got)
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	if got := NewValidationError().GetUserFriendlyMessage(); got != "Input validation failed" {
		t.Errorf("empty message = %q", got)
	}

	ve := NewValidationError()
	ve.AddRequiredError("taskKey")
	ve.AddRequiredError("status")
	if got := ve.GetUserFriendlyMessage(); got != "taskKey is required; status is required" {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()

	if !IsValidationError(ve) {
		t.Error("expected a ValidationError to be recognized")
	}
	if !IsValidationError(fmt.Errorf("wrapped: %w", ve)) {
		t.Error("expected a wrapped ValidationError to be recognized")
	}
	if IsValidationError(fmt.Errorf("plain")) {
		t.Error("plain error should not be a ValidationError")
	}
}
