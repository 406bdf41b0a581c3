// Package domain contains domain errors used throughout relaykit.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrJournalDisabled = errors.New("journal is disabled")
	ErrInvalidValue    = errors.New("invalid value")
	ErrClientClosed    = errors.New("client is closed")
)

// Error codes for client responses.
const (
	ErrCodeInvalidValue    = "INVALID_VALUE"
	ErrCodeInvalidPayload  = "INVALID_PAYLOAD"
	ErrCodeJournalDisabled = "JOURNAL_DISABLED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// InputError reports input that could not be turned into a stream value.
type InputError struct {
	Source string // Where the input came from (file path, request)
	Raw    string // The rejected input
	Err    error  // Underlying parse error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: cannot use %q: %v", e.Source, e.Raw, e.Err)
}

// Is makes errors.Is(err, ErrInvalidValue) hold.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidValue
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError creates a new InputError.
func NewInputError(source, raw string, err error) *InputError {
	return &InputError{
		Source: source,
		Raw:    raw,
		Err:    err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
