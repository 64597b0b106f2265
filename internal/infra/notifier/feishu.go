package notifier

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
)

// FeishuNotifier posts rich-text messages to a Feishu (Lark) custom bot.
type FeishuNotifier struct {
	hookURL    string
	httpClient *http.Client
}

// NewFeishuNotifier creates a Feishu bot adapter.
func NewFeishuNotifier(cfg Config) *FeishuNotifier {
	cfg = cfg.withDefaults()
	return &FeishuNotifier{
		hookURL:    cfg.FeishuHookURL,
		httpClient: cfg.httpClient(),
	}
}

// FeishuPayload is the "post" message body accepted by Feishu bots.
type FeishuPayload struct {
	MsgType string        `json:"msg_type"`
	Content FeishuContent `json:"content"`
}

// FeishuContent wraps the localized post.
type FeishuContent struct {
	Post map[string]FeishuPost `json:"post"`
}

// FeishuPost is one localized rich-text post: a title and rows of elements.
type FeishuPost struct {
	Title   string                `json:"title"`
	Content [][]FeishuTextElement `json:"content"`
}

// FeishuTextElement is a plain text element of a post row.
type FeishuTextElement struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

type feishuResponse struct {
	Code *int   `json:"code"`
	Msg  string `json:"msg"`
}

func buildFeishuPayload(msg entity.Message) FeishuPayload {
	return FeishuPayload{
		MsgType: "post",
		Content: FeishuContent{
			Post: map[string]FeishuPost{
				"zh_cn": {
					Title: msg.Title,
					Content: [][]FeishuTextElement{
						{{Tag: "text", Text: msg.Content}},
					},
				},
			},
		},
	}
}

// Send posts the message to the bot hook named by the credential.
func (f *FeishuNotifier) Send(ctx context.Context, cred entity.Credential, msg entity.Message) error {
	key, err := singleToken(ChannelFeishu, cred)
	if err != nil {
		return err
	}

	req, err := newJSONRequest(ctx, http.MethodPost, f.hookURL+url.PathEscape(key), buildFeishuPayload(msg))
	if err != nil {
		return err
	}

	var out feishuResponse
	resp, err := exchange(f.httpClient, req, ChannelFeishu, &out)
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	if out.Code == nil || *out.Code != 0 {
		logger.Warn("Feishu rejected notification",
			slog.Int("status", resp.StatusCode),
			slog.String("response", string(resp.Body)))
		return rejected(ChannelFeishu, resp)
	}

	logger.Info("Feishu notification sent")
	return nil
}
