package validator

import (
	"errors"
	"testing"
)

func TestIsStrongPassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{"AllClasses", "Password@0", true},
		{"SemicolonSpecial", "Password;1", true},
		{"Empty", "", false},
		{"TooShort", "Pass@0", false},
		{"NoSpecial", "Password0", false},
		{"NoDigit", "Password@", false},
		{"NoUpper", "password@0", false},
		{"NoLower", "PASSWORD@0", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsStrongPassword(tc.password); got != tc.want {
				t.Fatalf("IsStrongPassword(%q) = %v, want %v", tc.password, got, tc.want)
			}
		})
	}
}

func TestV10ValidatorValidate(t *testing.T) {
	type payload struct {
		Name     string `validate:"required,alphaspace"`
		Password string `validate:"required,strongpassword"`
	}

	v10, err := NewV10Validator()
	if err != nil {
		t.Fatalf("init validator: %v", err)
	}

	t.Run("Valid", func(t *testing.T) {
		if err := v10.Validate(payload{Name: "John Doe", Password: "Password@0"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("FieldErrorsBySnakeCaseName", func(t *testing.T) {
		err := v10.Validate(payload{Name: "John-1", Password: "weak"})
		if err == nil {
			t.Fatal("expected validation error")
		}

		var verr V10ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected V10ValidationError, got %T", err)
		}
		values := verr.Values()
		if _, ok := values["name"]; !ok {
			t.Fatalf("expected error for field name, got %v", values)
		}
		if _, ok := values["password"]; !ok {
			t.Fatalf("expected error for field password, got %v", values)
		}
	})
}
