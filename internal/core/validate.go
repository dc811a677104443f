package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength  = 128
	MaxIconLength  = 64
	MaxModelLength = 128
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	colorPattern    = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

func validateName(field, v string, max int) error {
	if strings.TrimSpace(v) == "" {
		return NewValidationError(field, "must not be empty")
	}
	if utf8.RuneCountInString(v) > max {
		return NewValidationError(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return nil
}

func validateCurrency(field, v string) error {
	if !currencyPattern.MatchString(v) {
		return NewValidationError(field, "must be a 3-letter ISO 4217 code")
	}
	return nil
}

func validateColor(v *string) error {
	if v != nil && !colorPattern.MatchString(*v) {
		return NewValidationError("color", "must be a hex color like #1A2B3C")
	}
	return nil
}

func validateIcon(v *string) error {
	if v != nil && utf8.RuneCountInString(*v) > MaxIconLength {
		return NewValidationError("icon", fmt.Sprintf("must be at most %d characters", MaxIconLength))
	}
	return nil
}

func normalizeCurrency(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

func trimPtr(v *string) {
	if v != nil {
		*v = strings.TrimSpace(*v)
	}
}
