package notifier

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
)

// PushPlusNotifier delivers messages to WeChat through PushPlus.
type PushPlusNotifier struct {
	endpoint   string
	httpClient *http.Client
}

// NewPushPlusNotifier creates a PushPlus adapter.
func NewPushPlusNotifier(cfg Config) *PushPlusNotifier {
	cfg = cfg.withDefaults()
	return &PushPlusNotifier{
		endpoint:   cfg.PushPlusURL,
		httpClient: cfg.httpClient(),
	}
}

type pushPlusResponse struct {
	Code *int   `json:"code"`
	Msg  string `json:"msg"`
}

// Send posts the message as a markdown form to PushPlus.
// The vendor renders single newlines as spaces, so they are doubled.
func (p *PushPlusNotifier) Send(ctx context.Context, cred entity.Credential, msg entity.Message) error {
	token, err := singleToken(ChannelPushPlus, cred)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("token", token)
	form.Set("title", msg.Title)
	form.Set("content", msg.DoubledNewlines())
	form.Set("channel", "wechat")
	form.Set("template", "markdown")

	req, err := newFormRequest(ctx, p.endpoint, form)
	if err != nil {
		return err
	}

	var out pushPlusResponse
	resp, err := exchange(p.httpClient, req, ChannelPushPlus, &out)
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	if out.Code == nil || *out.Code != 200 {
		logger.Warn("PushPlus rejected notification",
			slog.Int("status", resp.StatusCode),
			slog.String("response", string(resp.Body)))
		return rejected(ChannelPushPlus, resp)
	}

	logger.Info("PushPlus notification sent")
	return nil
}
