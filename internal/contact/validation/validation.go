// Package validation validates and sanitizes contact form input.
// Every check fails closed: anything ambiguous is invalid.
package validation

import (
	"regexp"
	"strings"

	"listing_portal_backend/platform/phone"
	"listing_portal_backend/platform/sanitize"
)

// User-facing messages.
const (
	MsgNameRequired    = "Name is required"
	MsgNameInvalid     = "Name can only contain letters, spaces, hyphens, and apostrophes"
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Please enter a valid email address"
	MsgMessageRequired = "Message is required"
	MsgMessageInvalid  = "Message contains invalid content"
	MsgPhoneInvalid    = "Valid phone number is required"
)

var (
	nameRegex       = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s'-]+$`)
	nameDisallowed  = regexp.MustCompile(`[^a-zA-ZÀ-ÿ\s'-]`)
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	emailDisallowed = regexp.MustCompile(`[^\w@.-]`)
)

// ValidateName accepts letters (accented included), spaces, hyphens and apostrophes.
func ValidateName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	return nameRegex.MatchString(trimmed)
}

// SanitizeName drops disallowed characters so input can be corrected while typing.
func SanitizeName(name string) string {
	return nameDisallowed.ReplaceAllString(name, "")
}

// ValidateEmail accepts the local@domain.tld shape.
func ValidateEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	return emailRegex.MatchString(trimmed)
}

// SanitizeEmail keeps word characters, '@', '.' and '-' and lower-cases the rest.
func SanitizeEmail(email string) string {
	return strings.ToLower(emailDisallowed.ReplaceAllString(email, ""))
}

// ValidateMessage rejects empty messages and script-injection patterns.
func ValidateMessage(message string) bool {
	if strings.TrimSpace(message) == "" {
		return false
	}
	return !sanitize.HasScript(message)
}

// SanitizeMessage strips script blocks, javascript: schemes and inline event handlers.
func SanitizeMessage(message string) string {
	return sanitize.StripScripts(message)
}

// ValidatePhone validates '+'-prefixed numbers as international numbers and everything
// else against region, which falls back to the default region when empty.
func ValidatePhone(number, region string) bool {
	return phone.IsValid(number, region)
}

// NameError returns the message for an invalid name, or "" when valid.
func NameError(name string) string {
	if strings.TrimSpace(name) == "" {
		return MsgNameRequired
	}
	if !ValidateName(name) {
		return MsgNameInvalid
	}
	return ""
}

// EmailError returns the message for an invalid email, or "" when valid.
func EmailError(email string) string {
	if strings.TrimSpace(email) == "" {
		return MsgEmailRequired
	}
	if !ValidateEmail(email) {
		return MsgEmailInvalid
	}
	return ""
}

// MessageError returns the message for an invalid enquiry text, or "" when valid.
func MessageError(message string) string {
	if strings.TrimSpace(message) == "" {
		return MsgMessageRequired
	}
	if !ValidateMessage(message) {
		return MsgMessageInvalid
	}
	return ""
}

// PhoneError returns the message for an invalid phone number, or "" when valid.
func PhoneError(number, region string) string {
	if !ValidatePhone(number, region) {
		return MsgPhoneInvalid
	}
	return ""
}
