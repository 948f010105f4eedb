package errors

import (
	"strings"
	"unicode"
)

// Field is a named user-supplied value checked by [RequireText].
type Field struct {
	Name  string
	Value string
}

// HasText reports whether s contains at least one non-whitespace character.
func HasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// RequireText validates that every field has text.
// The returned VALIDATION error names all blank fields in the order given,
// e.g. "managed version for 'com.example:' did not specify name, version".
func RequireText(subject string, fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if !HasText(f.Value) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return New(ErrCodeValidation, "%s did not specify %s", subject, strings.Join(missing, ", "))
}

// ValidateCoordinatePart validates a single group, name or version component.
// It rejects separators and control characters that would make the
// "group:name:version" form ambiguous.
func ValidateCoordinatePart(field, value string) error {
	if !HasText(value) {
		return New(ErrCodeValidation, "%s cannot be empty", field)
	}
	if strings.Contains(value, ":") {
		return New(ErrCodeValidation, "%s %q cannot contain ':'", field, value)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeValidation, "%s %q contains invalid control characters", field, value)
		}
	}
	return nil
}

// ValidateURL validates a repository URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeValidation, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeValidation, "URL must use http or https scheme")
	}

	return nil
}
