// Package validation holds helpers for checking string-backed enums.
package validation

import "strings"

// FormatValidValues joins string-like values for error messages.
func FormatValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// ParseEnum matches value case-insensitively against valid, ignoring
// surrounding whitespace.
func ParseEnum[T ~string](value string, valid []T) (T, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range valid {
		if strings.ToLower(string(candidate)) == normalized {
			return candidate, true
		}
	}
	var zero T
	return zero, false
}
