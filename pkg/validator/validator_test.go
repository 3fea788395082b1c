package validator

import (
	"testing"
)

type signupRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Capacity  int    `json:"capacity" validate:"gt=0"`
}

func TestFormatValidationError_UsesJSONNames(t *testing.T) {
	err := ValidateStruct(&signupRequest{Email: "nope", Capacity: 0})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	errs := FormatValidationError(err)
	if len(errs) != 3 {
		t.Fatalf("Expected 3 field errors, got %d: %+v", len(errs), errs)
	}

	want := map[string]string{
		"first_name": "first_name is required",
		"email":      "email must be a valid email address",
		"capacity":   "capacity must be greater than 0",
	}
	for _, e := range errs {
		msg, ok := want[e.Field]
		if !ok {
			t.Errorf("Unexpected field %q", e.Field)
			continue
		}
		if e.Message != msg {
			t.Errorf("Field %s: expected %q, got %q", e.Field, msg, e.Message)
		}
	}
}

func TestSummary(t *testing.T) {
	err := ValidateStruct(&signupRequest{FirstName: "Ada", Email: "ada@example.com"})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if got := Summary(err); got != "capacity must be greater than 0" {
		t.Errorf("Unexpected summary %q", got)
	}

	if err := ValidateStruct(&signupRequest{FirstName: "Ada", Email: "ada@example.com", Capacity: 3}); err != nil {
		t.Errorf("Expected valid struct, got %v", err)
	}
}

func TestSummary_NonValidationError(t *testing.T) {
	err := ValidateStruct(42)
	if err == nil {
		t.Fatal("Expected error for non-struct")
	}
	if got := Summary(err); got != err.Error() {
		t.Errorf("Expected summary %q, got %q", err.Error(), got)
	}
}
