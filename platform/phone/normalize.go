// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when the caller has not selected a country.
const DefaultRegion = "GH"

// IsValid reports whether input is a dialable number. Numbers starting with '+'
// are validated as international numbers regardless of region; everything else
// is validated against region (DefaultRegion when empty). Parse failures are invalid.
func IsValid(input, region string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}

	number, err := parse(trimmed, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(number)
}

// NormalizeE164 formats a phone number to E.164 using region for local numbers.
// If parsing fails, it falls back to '+' followed by the digits of the input.
func NormalizeE164(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := parse(trimmed, region)
	if err == nil && phonenumbers.IsValidNumber(number) {
		return phonenumbers.Format(number, phonenumbers.E164)
	}

	digits := Digits(trimmed)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// Digits strips everything but ASCII digits.
func Digits(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Mask hides the middle of a number for logs, e.g. +23324***456.
func Mask(input string) string {
	digits := Digits(input)
	if len(digits) <= 6 {
		return strings.Repeat("*", len(digits))
	}
	prefix := ""
	if strings.HasPrefix(strings.TrimSpace(input), "+") {
		prefix = "+"
	}
	return prefix + digits[:5] + "***" + digits[len(digits)-3:]
}

// NormalizeRegion upper-cases a region code and falls back to DefaultRegion.
func NormalizeRegion(region string) string {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		return DefaultRegion
	}
	return region
}

func parse(input, region string) (*phonenumbers.PhoneNumber, error) {
	if strings.HasPrefix(input, "+") {
		// "ZZ" makes libphonenumber rely on the explicit country calling code.
		return phonenumbers.Parse(input, "ZZ")
	}
	return phonenumbers.Parse(input, NormalizeRegion(region))
}
