package notify

import "errors"

// Sentinel errors for notify use case operations.
var (
	// ErrDuplicateChannel indicates that a channel name is already bound in the registry.
	ErrDuplicateChannel = errors.New("channel already registered")

	// ErrInvalidChannel indicates an empty channel name or a nil sender.
	ErrInvalidChannel = errors.New("invalid channel registration")

	// ErrSenderPanic wraps a panic recovered from a sender.
	ErrSenderPanic = errors.New("sender panicked")

	// ErrCircuitBreakerOpen indicates that the circuit breaker is open for this channel
	// and the channel was skipped to avoid calling a vendor that keeps failing.
	// The circuit breaker will automatically close after the timeout period.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open for this channel")
)
