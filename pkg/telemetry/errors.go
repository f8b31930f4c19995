package telemetry

import (
	"errors"
	"fmt"
)

// Sentinel errors for telemetry entity operations.
var (
	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed.
	// Every ValidationError matches it via errors.Is.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError reports the first rule an entity input violated.
// Validation is fail-fast: a single call produces at most one ValidationError,
// naming the offending field and the rule that rejected it.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s' (%s): %s", e.Field, e.Rule, e.Message)
}

// Is makes every ValidationError match ErrValidationFailed, so callers can
// classify failures without inspecting the concrete type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
