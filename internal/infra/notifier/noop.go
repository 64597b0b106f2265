package notifier

import (
	"context"
	"log/slog"

	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
)

// NoOpNotifier stands in for a real adapter when sending is disabled (dry runs).
// It logs what would have been sent and reports success without any HTTP call.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Send logs the message and returns nil.
func (n *NoOpNotifier) Send(ctx context.Context, cred entity.Credential, msg entity.Message) error {
	logging.FromContext(ctx).Info("Dry run: notification not sent",
		slog.String("credential", cred.Redacted()),
		slog.String("title", msg.Title),
		slog.Int("content_length", len(msg.Content)))
	return nil
}
