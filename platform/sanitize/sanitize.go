// Package sanitize provides text sanitization utilities to prevent XSS attacks.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

	scriptBlockRegex  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script\s*>`)
	scriptOpenRegex   = regexp.MustCompile(`(?i)</?script[^>]*>?`)
	jsSchemeRegex     = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerRegex = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
// This is a defense-in-depth measure; frontend should also escape output.
func StripHTML(s string) string {
	// Remove HTML tags
	result := htmlTagRegex.ReplaceAllString(s, "")
	// Decode common HTML entities
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes a string for safe text storage by stripping HTML
// and normalizing whitespace. Use for user-provided text fields like
// descriptions, notes, and comments.
func Text(s string) string {
	return StripHTML(s)
}

// HasScript reports whether s contains a script tag, a javascript: URL or an
// inline event-handler attribute.
func HasScript(s string) bool {
	return scriptOpenRegex.MatchString(s) || jsSchemeRegex.MatchString(s) || eventHandlerRegex.MatchString(s)
}

// StripScripts removes script blocks, javascript: schemes and inline event-handler
// attributes, then trims. It is not a full HTML sanitizer.
func StripScripts(s string) string {
	result := scriptBlockRegex.ReplaceAllString(s, "")
	result = scriptOpenRegex.ReplaceAllString(result, "")
	result = jsSchemeRegex.ReplaceAllString(result, "")
	result = eventHandlerRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}
