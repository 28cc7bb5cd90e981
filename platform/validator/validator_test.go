package validator

import (
	"strings"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"kind" validate:"oneof=listing project"`
	Note  string `json:"note" validate:"nocaps"`
}

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	v := New()
	if err := v.RegisterValidation("nocaps", func(fl govalidator.FieldLevel) bool {
		return strings.ToLower(fl.Field().String()) == fl.Field().String()
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := v.Struct(sample{Email: "nope", Kind: "agent", Note: "LOUD"})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	fields := FieldErrors(err)
	want := map[string]string{"email": "email", "kind": "oneof", "note": "nocaps"}
	for field, tag := range want {
		if fields[field] != tag {
			t.Errorf("field %s: got tag %q, want %q", field, fields[field], tag)
		}
	}
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	if FieldErrors(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
