package notifier

import (
	"context"

	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
)

// ServerChanNotifier serves the serverChan_token channel by relaying through
// PushDeer: the credential is the caller's PushDeer pushkey.
type ServerChanNotifier struct {
	client *PushDeerClient
}

// NewServerChanNotifier creates the relay adapter for cfg.PushDeerServer.
func NewServerChanNotifier(cfg Config) *ServerChanNotifier {
	cfg = cfg.withDefaults()
	return &ServerChanNotifier{
		client: NewPushDeerClient(cfg.PushDeerServer, "", cfg.httpClient()),
	}
}

// Send pushes the title as text with the content, newlines doubled, as description.
func (s *ServerChanNotifier) Send(ctx context.Context, cred entity.Credential, msg entity.Message) error {
	pushKey, err := singleToken(ChannelServerChan, cred)
	if err != nil {
		return err
	}

	if err := s.client.WithPushKey(pushKey).SendText(ctx, msg.Title, msg.DoubledNewlines()); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("ServerChan notification relayed")
	return nil
}
