// Package notifier contains one adapter per third-party push service.
//
// Every adapter exposes
//
//	Send(ctx context.Context, cred entity.Credential, msg entity.Message) error
//
// and reports its outcome through the error value:
//
//   - nil: the vendor acknowledged the message
//   - an error wrapping entity.ErrNotDelivered (usually *VendorError): the
//     vendor answered but refused the message, or a multi-field credential had
//     an unsupported field count
//   - an error wrapping entity.ErrInvalidCredential: the credential has the
//     wrong shape for the channel
//   - any other error: transport failure, unexpected status or malformed body
//
// Adapters never retry and never rate limit. Each owns an *http.Client whose
// timeout comes from Config; every request also honours the caller's context.
package notifier

import (
	"net/http"
	"time"
)

// Channel keys under which the built-in adapters are registered.
// They double as the credential names accepted in configuration.
const (
	ChannelPushPlus   = "pushplus_token"
	ChannelServerChan = "serverChan_token"
	ChannelWeComApp   = "weCom_tokens"
	ChannelWeComBot   = "weCom_webhook"
	ChannelBark       = "bark_deviceKey"
	ChannelFeishu     = "feishu_deviceKey"
)

// Default vendor endpoints.
const (
	DefaultPushPlusURL    = "http://www.pushplus.plus/send"
	DefaultPushDeerServer = "https://api2.pushdeer.com"
	DefaultWeComHost      = "https://qyapi.weixin.qq.com"
	DefaultBarkURL        = "https://api.day.app/push"
	DefaultFeishuHookURL  = "https://open.feishu.cn/open-apis/bot/v2/hook/"
	DefaultTimeout        = 30 * time.Second
)

// Config contains the settings shared by all adapters.
type Config struct {
	// Timeout is the HTTP client timeout for a single vendor call.
	Timeout time.Duration

	// PushPlusURL is the PushPlus send endpoint.
	PushPlusURL string

	// PushDeerServer is the base URL of the PushDeer relay used by the
	// serverChan_token channel.
	PushDeerServer string

	// WeComHost is the WeCom API host used when a weCom_tokens credential
	// carries no proxy field.
	WeComHost string

	// WeComPicURL is the cover image attached to WeCom news articles.
	// Empty means no image.
	WeComPicURL string

	// BarkURL is the Bark push endpoint. Self-hosted Bark servers use the same path.
	BarkURL string

	// FeishuHookURL is the Feishu bot webhook prefix; the device key is appended.
	FeishuHookURL string

	// Transport overrides the HTTP transport. Nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// DefaultConfig returns the public vendor endpoints with a 30s timeout.
func DefaultConfig() Config {
	return Config{
		Timeout:        DefaultTimeout,
		PushPlusURL:    DefaultPushPlusURL,
		PushDeerServer: DefaultPushDeerServer,
		WeComHost:      DefaultWeComHost,
		BarkURL:        DefaultBarkURL,
		FeishuHookURL:  DefaultFeishuHookURL,
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.PushPlusURL == "" {
		c.PushPlusURL = d.PushPlusURL
	}
	if c.PushDeerServer == "" {
		c.PushDeerServer = d.PushDeerServer
	}
	if c.WeComHost == "" {
		c.WeComHost = d.WeComHost
	}
	if c.BarkURL == "" {
		c.BarkURL = d.BarkURL
	}
	if c.FeishuHookURL == "" {
		c.FeishuHookURL = d.FeishuHookURL
	}
	return c
}

func (c Config) httpClient() *http.Client {
	return &http.Client{
		Timeout:   c.Timeout,
		Transport: c.Transport,
	}
}
