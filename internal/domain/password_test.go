package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("secret"); err != nil {
		t.Fatalf("six characters should pass: %v", err)
	}
	if err := ValidatePassword("short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("five characters should fail, got %v", err)
	}
	if err := ValidatePassword("      "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank password should fail, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("a", 129)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("overlong password should fail, got %v", err)
	}
}

func TestValidateNationalID(t *testing.T) {
	t.Parallel()

	if err := ValidateNationalID("123456789012"); err != nil {
		t.Fatalf("twelve digits should pass: %v", err)
	}
	for _, bad := range []string{"", "12345678901", "1234567890123", "12345678901x", "12345678 012"} {
		if err := ValidateNationalID(bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%q should fail, got %v", bad, err)
		}
	}
}
