package domain

import (
	"fmt"
	"strings"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 128

	nationalIDLength = 12
)

// ValidatePassword enforces the baseline password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be <= %d characters", ErrInvalidInput, maxPasswordLength)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password must not be blank", ErrInvalidInput)
	}
	return nil
}

// ValidateNationalID requires exactly 12 decimal digits.
func ValidateNationalID(id string) error {
	if len(id) != nationalIDLength {
		return fmt.Errorf("%w: national id must be exactly %d digits", ErrInvalidInput, nationalIDLength)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: national id must contain only digits", ErrInvalidInput)
		}
	}
	return nil
}
