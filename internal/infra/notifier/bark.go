package notifier

import (
	"context"
	"log/slog"
	"net/http"

	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
)

// BarkNotifier pushes messages to iOS devices through a Bark server.
type BarkNotifier struct {
	endpoint   string
	httpClient *http.Client
}

// NewBarkNotifier creates a Bark adapter.
func NewBarkNotifier(cfg Config) *BarkNotifier {
	cfg = cfg.withDefaults()
	return &BarkNotifier{
		endpoint:   cfg.BarkURL,
		httpClient: cfg.httpClient(),
	}
}

// BarkPayload is the JSON body of a Bark push.
type BarkPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	DeviceKey string `json:"device_key"`
}

type barkResponse struct {
	Code    *int   `json:"code"`
	Message string `json:"message"`
}

// Send posts the message to the device identified by the credential.
func (b *BarkNotifier) Send(ctx context.Context, cred entity.Credential, msg entity.Message) error {
	deviceKey, err := singleToken(ChannelBark, cred)
	if err != nil {
		return err
	}

	req, err := newJSONRequest(ctx, http.MethodPost, b.endpoint, BarkPayload{
		Title:     msg.Title,
		Body:      msg.Content,
		DeviceKey: deviceKey,
	})
	if err != nil {
		return err
	}

	var out barkResponse
	resp, err := exchange(b.httpClient, req, ChannelBark, &out)
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	if out.Code == nil || *out.Code != 200 {
		logger.Warn("Bark rejected notification",
			slog.Int("status", resp.StatusCode),
			slog.String("response", string(resp.Body)))
		return rejected(ChannelBark, resp)
	}

	logger.Info("Bark notification sent")
	return nil
}
