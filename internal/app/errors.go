package app

import (
	"fmt"
	"net/http"
)

// DomainError carries the HTTP status and wire code for a failure the
// board surface reports deliberately rather than as a 500.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// validationError rejects a form submission. Every check the board runs
// (required fields, email shape, image type, status enum) maps to this
// same 422 so clients handle one shape.
func validationError(message string, details any) *DomainError {
	return &DomainError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}
}
