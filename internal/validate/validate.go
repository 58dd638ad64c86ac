// Package validate holds the form validation rules shared by the idea,
// login and contact forms.
package validate

import (
	"regexp"
	"strings"
)

// Mirrors the board's email rule: one @ with non-space local part and a
// dotted domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email reports whether raw has the localpart@domain.tld shape.
func Email(raw string) bool {
	return emailPattern.MatchString(strings.TrimSpace(raw))
}

// Required trims each named field and collects a message per missing one,
// in field order. Returns the trimmed values and nil when all present.
type Field struct {
	Name  string
	Value string
}

// FieldError is a user-visible validation message tied to one input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Required returns the trimmed field values keyed by name plus an error
// entry for every field left blank.
func Required(fields ...Field) (map[string]string, []FieldError) {
	trimmed := make(map[string]string, len(fields))
	var errs []FieldError
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		trimmed[f.Name] = value
		if value == "" {
			errs = append(errs, FieldError{Field: f.Name, Message: "Please fill in all required fields."})
		}
	}
	return trimmed, errs
}
