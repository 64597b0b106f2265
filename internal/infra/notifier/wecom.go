package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"msgsend/internal/domain/entity"
	"msgsend/internal/observability/logging"
)

// weComDuplicateCheckInterval asks WeCom to drop identical messages sent
// within this many seconds.
const weComDuplicateCheckInterval = 600

// WeComAppNotifier sends news messages through a WeCom self-built application.
//
// The credential is "corpid,secret,agentid[,touser[,proxy]]", either as one
// comma-separated string or as a list of three to five fields. The proxy
// replaces the WeCom API host for both calls.
type WeComAppNotifier struct {
	host       string
	picURL     string
	httpClient *http.Client
}

// NewWeComAppNotifier creates a WeCom application adapter.
func NewWeComAppNotifier(cfg Config) *WeComAppNotifier {
	cfg = cfg.withDefaults()
	return &WeComAppNotifier{
		host:       cfg.WeComHost,
		picURL:     cfg.WeComPicURL,
		httpClient: cfg.httpClient(),
	}
}

// weComApp is a parsed weCom_tokens credential.
type weComApp struct {
	CorpID  string
	Secret  string
	AgentID string
	ToUser  string
	Proxy   string
}

func parseWeComApp(cred entity.Credential) (weComApp, error) {
	fields := cred.Fields()
	if len(fields) < 3 || len(fields) > 5 {
		return weComApp{}, fmt.Errorf("%s: %w: got %d fields, want 3 to 5",
			ChannelWeComApp, entity.ErrUnsupportedArity, len(fields))
	}
	app := weComApp{CorpID: fields[0], Secret: fields[1], AgentID: fields[2]}
	if len(fields) >= 4 {
		app.ToUser = fields[3]
	}
	if len(fields) == 5 {
		app.Proxy = fields[4]
	}
	return app, nil
}

// WeComNewsPayload is the application message body of msgtype "news".
type WeComNewsPayload struct {
	ToUser                 string        `json:"touser"`
	AgentID                any           `json:"agentid"`
	MsgType                string        `json:"msgtype"`
	News                   WeComNewsBody `json:"news"`
	DuplicateCheckInterval int           `json:"duplicate_check_interval"`
}

// WeComNewsBody holds the news articles.
type WeComNewsBody struct {
	Articles []WeComArticle `json:"articles"`
}

// WeComArticle is a single news card.
type WeComArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PicURL      string `json:"picurl"`
	URL         string `json:"url"`
}

type weComTokenResponse struct {
	weComResponse
	AccessToken string `json:"access_token"`
}

// agentIDValue sends numeric agent ids as JSON numbers, which is what the API
// documents, and anything else verbatim.
func agentIDValue(agentID string) any {
	if n, err := strconv.Atoi(agentID); err == nil {
		return n
	}
	return agentID
}

func (w *WeComAppNotifier) buildNewsPayload(app weComApp, msg entity.Message) WeComNewsPayload {
	toUser := app.ToUser
	if toUser == "" {
		toUser = "@all"
	}
	return WeComNewsPayload{
		ToUser:  toUser,
		AgentID: agentIDValue(app.AgentID),
		MsgType: "news",
		News: WeComNewsBody{
			Articles: []WeComArticle{{
				Title:       msg.Title,
				Description: msg.Content,
				PicURL:      w.picURL,
				URL:         "",
			}},
		},
		DuplicateCheckInterval: weComDuplicateCheckInterval,
	}
}

// Send fetches an access token and posts the message as a news card.
// No HTTP call is made for an unsupported field count, and the send call is
// skipped when the token step yields no token.
func (w *WeComAppNotifier) Send(ctx context.Context, cred entity.Credential, msg entity.Message) error {
	logger := logging.FromContext(ctx)

	app, err := parseWeComApp(cred)
	if err != nil {
		logger.Warn("WeCom credential has an unsupported field count",
			slog.String("credential", cred.Redacted()))
		return err
	}

	host := w.host
	if app.Proxy != "" {
		host = app.Proxy
	}
	host = strings.TrimRight(host, "/")

	token, err := w.fetchToken(ctx, host, app)
	if err != nil {
		return err
	}

	req, err := newJSONRequest(ctx, http.MethodPost,
		host+"/cgi-bin/message/send?"+url.Values{"access_token": {token}}.Encode(),
		w.buildNewsPayload(app, msg))
	if err != nil {
		return err
	}

	var out weComResponse
	resp, err := exchange(w.httpClient, req, ChannelWeComApp, &out)
	if err != nil {
		return err
	}
	if !out.ok() {
		logger.Warn("WeCom rejected notification",
			slog.Int("status", resp.StatusCode),
			slog.String("response", string(resp.Body)))
		return rejected(ChannelWeComApp, resp)
	}

	logger.Info("WeCom notification sent", slog.String("touser", app.ToUser))
	return nil
}

// fetchToken performs the gettoken call. A non-zero errcode or a missing
// access token is a rejection and no send call follows.
func (w *WeComAppNotifier) fetchToken(ctx context.Context, host string, app weComApp) (string, error) {
	query := url.Values{}
	query.Set("corpid", app.CorpID)
	query.Set("corpsecret", app.Secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/cgi-bin/gettoken?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create http request: %w", redactURLError(err))
	}

	var out weComTokenResponse
	resp, err := exchange(w.httpClient, req, ChannelWeComApp, &out)
	if err != nil {
		return "", err
	}

	if out.failed() || out.AccessToken == "" {
		// The raw body may hold a token; only the error fields are kept.
		body := weComErrorBody(out.weComResponse)
		logging.FromContext(ctx).Warn("WeCom token request rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("response", body))
		return "", &VendorError{Channel: ChannelWeComApp, StatusCode: resp.StatusCode, Body: body}
	}
	return out.AccessToken, nil
}

// weComErrorBody renders only errcode and errmsg of a response.
func weComErrorBody(r weComResponse) string {
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(data)
}
