package validation

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email has a usable local@domain shape.
func ValidEmail(email string) bool {
	if email == "" || email == "null" || email == "undefined" {
		return false
	}
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidApplicationID rejects empty or literal null-ish tokens; the id itself
// is an opaque string.
func ValidApplicationID(id string) bool {
	if id == "null" || id == "undefined" {
		return false
	}
	return strings.TrimSpace(id) != ""
}

var (
	jsSchemeRegex     = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRegex = regexp.MustCompile(`(?i)on\w+=`)
	angleBrackets     = strings.NewReplacer("<", "", ">", "")
)

// Sanitize strips stored-markup injection vectors from a field value: angle
// brackets, javascript: URL schemes, and inline event-handler attributes.
// Ordinary text (emails, addresses) passes through unchanged.
func Sanitize(input string) string {
	out := strings.TrimSpace(input)
	out = angleBrackets.Replace(out)
	out = jsSchemeRegex.ReplaceAllString(out, "")
	out = eventHandlerRegex.ReplaceAllString(out, "")
	return out
}
