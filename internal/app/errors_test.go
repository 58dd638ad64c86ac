package app

import (
	"fmt"
	"net/http"
	"testing"
)

func TestValidationErrorShape(t *testing.T) {
	err := validationError("Please fill in all required fields.", nil)
	if err.Status != http.StatusUnprocessableEntity || err.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected envelope: %+v", err)
	}
	if err.Error() != "VALIDATION_ERROR: Please fill in all required fields." {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestMapErrorUnwrapsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("submit idea: %w", validationError("Please enter a valid email address.", nil))
	status, code, message, _ := mapError(wrapped)
	if status != http.StatusUnprocessableEntity || code != "VALIDATION_ERROR" {
		t.Errorf("mapError = %d %s", status, code)
	}
	if message != "Please enter a valid email address." {
		t.Errorf("message = %q", message)
	}
}

func TestMapErrorDefaultsToServerError(t *testing.T) {
	status, code, _, _ := mapError(fmt.Errorf("kv exploded"))
	if status != http.StatusInternalServerError || code != "SERVER_ERROR" {
		t.Errorf("mapError = %d %s", status, code)
	}
}
