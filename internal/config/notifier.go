package config

import (
	"log/slog"
	"time"

	"msgsend/internal/infra/notifier"
	pkgconfig "msgsend/pkg/config"
)

const (
	minHTTPTimeout = time.Second
	maxHTTPTimeout = 5 * time.Minute
)

// LoadNotifierConfig builds the adapter configuration from environment variables.
//
// Environment variables:
//   - NOTIFY_HTTP_TIMEOUT: per-call HTTP timeout, 1s..5m (default: 30s)
//   - PUSHPLUS_URL: PushPlus send endpoint
//   - PUSHDEER_SERVER: PushDeer relay used by serverChan_token (default: https://api2.pushdeer.com)
//   - WECOM_HOST: WeCom API host when a credential has no proxy field
//   - WECOM_PIC_URL: cover image for WeCom news cards (default: none)
//   - BARK_URL: Bark push endpoint, for self-hosted servers
//   - FEISHU_HOOK_URL: Feishu bot webhook prefix
//
// Invalid values fall back to the defaults with a warning.
func LoadNotifierConfig() notifier.Config {
	d := notifier.DefaultConfig()

	timeout := pkgconfig.GetEnvDuration("NOTIFY_HTTP_TIMEOUT", d.Timeout)
	if err := pkgconfig.ValidateDurationRange(timeout, minHTTPTimeout, maxHTTPTimeout); err != nil {
		slog.Warn("NOTIFY_HTTP_TIMEOUT out of range, using default",
			slog.Duration("value", timeout),
			slog.Duration("default", d.Timeout),
			slog.Any("error", err))
		timeout = d.Timeout
	}

	return notifier.Config{
		Timeout:        timeout,
		PushPlusURL:    pkgconfig.GetEnvURL("PUSHPLUS_URL", d.PushPlusURL),
		PushDeerServer: pkgconfig.GetEnvURL("PUSHDEER_SERVER", d.PushDeerServer),
		WeComHost:      pkgconfig.GetEnvURL("WECOM_HOST", d.WeComHost),
		WeComPicURL:    pkgconfig.GetEnvURL("WECOM_PIC_URL", d.WeComPicURL),
		BarkURL:        pkgconfig.GetEnvURL("BARK_URL", d.BarkURL),
		FeishuHookURL:  pkgconfig.GetEnvURL("FEISHU_HOOK_URL", d.FeishuHookURL),
	}
}
