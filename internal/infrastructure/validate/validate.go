// Package validate holds small composable string checks.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validator is a function that validates a string and returns an error if invalid
type Validator func(value string) error

// Compose chains multiple validators, first error wins
func Compose(validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required ensures the field is not blank
func Required() Validator {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New("this field is required")
		}
		return nil
	}
}

// MinLength checks the minimum number of characters (runes, not bytes)
func MinLength(min int) Validator {
	return func(v string) error {
		if utf8.RuneCountInString(v) < min {
			return fmt.Errorf("must be at least %d characters", min)
		}
		return nil
	}
}

// MaxLength checks the maximum number of characters (runes, not bytes)
func MaxLength(max int) Validator {
	return func(v string) error {
		if utf8.RuneCountInString(v) > max {
			return fmt.Errorf("must be no more than %d characters", max)
		}
		return nil
	}
}

// LengthBetween checks length between min and max (inclusive)
func LengthBetween(min, max int) Validator {
	return Compose(MinLength(min), MaxLength(max))
}

// NoControlChars rejects newlines, tabs and other non-printing runes
func NoControlChars() Validator {
	return func(v string) error {
		for _, r := range v {
			if unicode.IsControl(r) {
				return errors.New("must not contain control characters")
			}
		}
		return nil
	}
}
