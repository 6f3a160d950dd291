// Package validate checks caller-supplied identifiers before anything else
// touches them. Pure functions only; no I/O.
package validate

import (
	"regexp"
	"strings"
)

const maxUserIDLength = 50

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// UserID validates a user_id as received from either transport. The checks
// run in a fixed order and stop at the first failure; the returned reason is
// the caller-facing message for that rule.
func UserID(v interface{}) (bool, string) {
	if v == nil {
		return false, "'user_id' field is required in the request body."
	}

	s, ok := v.(string)
	if !ok {
		return false, "'user_id' must be a string."
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false, "'user_id' cannot be empty or contain only whitespace."
	}

	if !userIDPattern.MatchString(trimmed) {
		return false, "'user_id' contains invalid characters. Only letters, numbers, underscores, and hyphens are allowed."
	}

	if len(trimmed) > maxUserIDLength {
		return false, "'user_id' must be 50 characters or less."
	}

	return true, ""
}

// Normalize returns the form of a valid user_id downstream code uses: the
// trimmed value, never the raw input.
func Normalize(s string) string {
	return strings.TrimSpace(s)
}
