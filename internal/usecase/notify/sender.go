// Package notify provides the use case for broadcasting one message to every
// channel the caller holds a credential for.
//
// A Registry maps channel names to Senders and is frozen once built. The
// Dispatcher walks a CredentialSet in order, skips names it does not know and
// credentials that are not usable, invokes each remaining Sender in turn and
// records one Result per channel. A failing or panicking Sender never stops
// the batch.
package notify

import (
	"context"

	"msgsend/internal/domain/entity"
)

// Sender delivers a message to one third-party service.
//
// Contract:
//   - return nil when the vendor acknowledged the message
//   - return an error wrapping entity.ErrNotDelivered when the vendor answered
//     but refused the message (a soft failure)
//   - return any other error for unexpected failures (network, decoding,
//     credential shape)
//
// Implementations must respect context cancellation and must be safe for
// concurrent use by multiple goroutines.
type Sender interface {
	Send(ctx context.Context, cred entity.Credential, msg entity.Message) error
}

// SenderFunc adapts an ordinary function to the Sender interface.
type SenderFunc func(ctx context.Context, cred entity.Credential, msg entity.Message) error

// Send calls f(ctx, cred, msg).
func (f SenderFunc) Send(ctx context.Context, cred entity.Credential, msg entity.Message) error {
	return f(ctx, cred, msg)
}
