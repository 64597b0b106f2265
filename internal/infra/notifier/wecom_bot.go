package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
)

// WeComWebhookPrefix must appear in every weCom_webhook credential.
const WeComWebhookPrefix = "https://qyapi.weixin.qq.com/cgi-bin/webhook/send?"

// WeComBotNotifier posts markdown messages to a WeCom group bot webhook.
type WeComBotNotifier struct {
	httpClient *http.Client
}

// NewWeComBotNotifier creates a WeCom group bot adapter.
func NewWeComBotNotifier(cfg Config) *WeComBotNotifier {
	cfg = cfg.withDefaults()
	return &WeComBotNotifier{httpClient: cfg.httpClient()}
}

// WeComMarkdownPayload is the markdown message body of a group bot.
type WeComMarkdownPayload struct {
	MsgType  string            `json:"msgtype"`
	Markdown WeComMarkdownBody `json:"markdown"`
}

// WeComMarkdownBody holds the markdown text.
type WeComMarkdownBody struct {
	Content string `json:"content"`
}

type weComResponse struct {
	ErrCode *int   `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (r weComResponse) ok() bool {
	return r.ErrCode != nil && *r.ErrCode == 0
}

// failed reports an explicit non-zero errcode.
func (r weComResponse) failed() bool {
	return r.ErrCode != nil && *r.ErrCode != 0
}

// Send posts the message content to the webhook URL held by the credential.
// Group bots have no title field, so only the content is sent.
func (w *WeComBotNotifier) Send(ctx context.Context, cred entity.Credential, msg entity.Message) error {
	webhook, err := singleToken(ChannelWeComBot, cred)
	if err != nil {
		return err
	}
	if !strings.Contains(webhook, WeComWebhookPrefix) {
		return fmt.Errorf("%s: %w: expected the whole webhook url", ChannelWeComBot, entity.ErrInvalidCredential)
	}

	req, err := newJSONRequest(ctx, http.MethodPost, webhook, WeComMarkdownPayload{
		MsgType:  "markdown",
		Markdown: WeComMarkdownBody{Content: msg.Content},
	})
	if err != nil {
		return err
	}

	var out weComResponse
	resp, err := exchange(w.httpClient, req, ChannelWeComBot, &out)
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	if !out.ok() {
		logger.Warn("WeCom bot rejected notification",
			slog.Int("status", resp.StatusCode),
			slog.String("response", string(resp.Body)))
		return rejected(ChannelWeComBot, resp)
	}

	logger.Info("WeCom bot notification sent")
	return nil
}
