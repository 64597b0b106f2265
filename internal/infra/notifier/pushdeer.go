package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
)

const pushDeerEndpoint = "/message/push"

// PushDeer message types.
const (
	PushDeerText     = "text"
	PushDeerMarkdown = "markdown"
	PushDeerImage    = "image"
)

// ErrMissingPushKey is returned when neither the client nor the call supplies a pushkey.
var ErrMissingPushKey = fmt.Errorf("%w: pushkey must be specified", entity.ErrInvalidCredential)

// PushDeerClient talks to a PushDeer server (the public relay or a self-hosted one).
type PushDeerClient struct {
	server     string
	pushKey    string
	httpClient *http.Client
}

// NewPushDeerClient creates a client for server. pushKey may be empty when every
// call goes through WithPushKey.
func NewPushDeerClient(server, pushKey string, httpClient *http.Client) *PushDeerClient {
	if server == "" {
		server = DefaultPushDeerServer
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &PushDeerClient{
		server:     strings.TrimRight(server, "/"),
		pushKey:    pushKey,
		httpClient: httpClient,
	}
}

// WithPushKey returns a copy of the client bound to pushKey.
func (c *PushDeerClient) WithPushKey(pushKey string) *PushDeerClient {
	cp := *c
	cp.pushKey = pushKey
	return &cp
}

// SendText pushes plain text. desp is the optional second part of the message.
func (c *PushDeerClient) SendText(ctx context.Context, text, desp string) error {
	return c.push(ctx, text, desp, PushDeerText)
}

// SendMarkdown pushes markdown text.
func (c *PushDeerClient) SendMarkdown(ctx context.Context, text, desp string) error {
	return c.push(ctx, text, desp, PushDeerMarkdown)
}

// SendImage pushes an image given by its URL.
func (c *PushDeerClient) SendImage(ctx context.Context, imageURL, desp string) error {
	return c.push(ctx, imageURL, desp, PushDeerImage)
}

type pushDeerResponse struct {
	Code    int `json:"code"`
	Content struct {
		Result []string `json:"result"`
	} `json:"content"`
}

// pushDeerResult is the JSON document embedded as a string in content.result.
type pushDeerResult struct {
	Success string `json:"success"`
}

func (c *PushDeerClient) push(ctx context.Context, text, desp, msgType string) error {
	if c.pushKey == "" {
		return ErrMissingPushKey
	}

	query := url.Values{}
	query.Set("pushkey", c.pushKey)
	query.Set("text", text)
	query.Set("type", msgType)
	// desp is optional for PushDeer; an empty one is left out of the query.
	if desp != "" {
		query.Set("desp", desp)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.server+pushDeerEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create http request: %w", redactURLError(err))
	}

	var out pushDeerResponse
	resp, err := exchange(c.httpClient, req, ChannelServerChan, &out)
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	if len(out.Content.Result) == 0 {
		logger.Warn("PushDeer returned no result",
			slog.Int("status", resp.StatusCode),
			slog.String("response", string(resp.Body)))
		return rejected(ChannelServerChan, resp)
	}

	var result pushDeerResult
	if err := json.Unmarshal([]byte(out.Content.Result[0]), &result); err != nil {
		return fmt.Errorf("decode pushdeer result: %w", err)
	}
	if result.Success != "ok" {
		logger.Warn("PushDeer rejected notification",
			slog.Int("status", resp.StatusCode),
			slog.String("response", string(resp.Body)))
		return rejected(ChannelServerChan, resp)
	}
	return nil
}

