package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredential indicates that a credential does not have the shape a
	// channel expects (a list where a single token is required, a webhook URL
	// for the wrong service, a missing key). Senders treat it as a hard failure.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrNotDelivered marks a soft failure: the message was not delivered but
	// nothing unexpected happened. Every rejection wraps it.
	ErrNotDelivered = errors.New("message not delivered")

	// ErrUnsupportedArity indicates that a multi-field credential has a field
	// count the channel does not accept. No request is made.
	ErrUnsupportedArity = fmt.Errorf("%w: unsupported credential field count", ErrNotDelivered)
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match any validation failure with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
