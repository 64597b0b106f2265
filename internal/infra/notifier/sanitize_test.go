package notifier

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msgsend/internal/domain/entity"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "wecom token request",
			in:   "https://qyapi.weixin.qq.com/cgi-bin/gettoken?corpid=ww1&corpsecret=s3cr3t",
			want: "https://qyapi.weixin.qq.com/cgi-bin/gettoken?corpid=ww1&corpsecret=****",
		},
		{
			name: "wecom send",
			in:   "https://qyapi.weixin.qq.com/cgi-bin/message/send?access_token=abc.def",
			want: "https://qyapi.weixin.qq.com/cgi-bin/message/send?access_token=****",
		},
		{
			name: "wecom bot webhook",
			in:   "https://qyapi.weixin.qq.com/cgi-bin/webhook/send?key=693a91f6",
			want: "https://qyapi.weixin.qq.com/cgi-bin/webhook/send?key=****",
		},
		{
			name: "pushdeer",
			in:   "https://api2.pushdeer.com/message/push?desp=x&pushkey=PDU1xyz&text=hi&type=text",
			want: "https://api2.pushdeer.com/message/push?desp=x&pushkey=****&text=hi&type=text",
		},
		{
			name: "feishu hook",
			in:   "https://open.feishu.cn/open-apis/bot/v2/hook/0f1e-2d3c",
			want: "https://open.feishu.cn/open-apis/bot/v2/hook/****",
		},
		{
			name: "nothing secret",
			in:   "https://api.day.app/push",
			want: "https://api.day.app/push",
		},
		{
			name: "similar parameter names are kept",
			in:   "https://example.com/?device_key=abc&monkey=1",
			want: "https://example.com/?device_key=abc&monkey=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactURL(tt.in))
		})
	}
}

func TestSanitizeError(t *testing.T) {
	assert.Empty(t, SanitizeError(nil))

	err := errors.New(`Get "https://qyapi.weixin.qq.com/cgi-bin/gettoken?corpid=ww&corpsecret=topsecret": dial tcp: timeout`)
	got := SanitizeError(err)

	assert.NotContains(t, got, "topsecret")
	assert.Contains(t, got, "corpsecret=****")
	assert.Contains(t, got, "dial tcp: timeout")
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestTransportErrorsDoNotLeakCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transport = failingTransport{}
	msg := entity.Message{Title: "t", Content: "c"}

	tests := []struct {
		name   string
		sender interface {
			Send(context.Context, entity.Credential, entity.Message) error
		}
		cred   entity.Credential
		secret string
	}{
		{name: "wecom app", sender: NewWeComAppNotifier(cfg), cred: entity.SingleCredential("corp,corpsecretvalue,1"), secret: "corpsecretvalue"},
		{name: "wecom bot", sender: NewWeComBotNotifier(cfg), cred: entity.SingleCredential(WeComWebhookPrefix + "key=botkeyvalue"), secret: "botkeyvalue"},
		{name: "server chan", sender: NewServerChanNotifier(cfg), cred: entity.SingleCredential("pushkeyvalue"), secret: "pushkeyvalue"},
		{name: "feishu", sender: NewFeishuNotifier(cfg), cred: entity.SingleCredential("hookkeyvalue"), secret: "hookkeyvalue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sender.Send(context.Background(), tt.cred, msg)

			require.Error(t, err)
			assert.NotContains(t, err.Error(), tt.secret)
			assert.Contains(t, err.Error(), "connection refused")
			assert.NotErrorIs(t, err, entity.ErrNotDelivered)
		})
	}
}

func TestWeComApp_MalformedProxyDoesNotLeakSecret(t *testing.T) {
	n := NewWeComAppNotifier(DefaultConfig())
	cred := entity.ListCredential("corp", "proxysecretvalue", "1", "@all", "http://bad host")

	err := n.Send(context.Background(), cred, entity.Message{Title: "t", Content: "c"})

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "proxysecretvalue")
}
