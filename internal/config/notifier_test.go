package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"msgsend/internal/infra/notifier"
)

func TestLoadNotifierConfig(t *testing.T) {
	t.Run("TC-1: should use defaults when nothing is set", func(t *testing.T) {
		for _, key := range []string{"NOTIFY_HTTP_TIMEOUT", "PUSHPLUS_URL", "PUSHDEER_SERVER", "WECOM_HOST", "WECOM_PIC_URL", "BARK_URL", "FEISHU_HOOK_URL"} {
			t.Setenv(key, "")
		}

		cfg := LoadNotifierConfig()

		assert.Equal(t, notifier.DefaultConfig(), cfg)
	})

	t.Run("TC-2: should read overrides", func(t *testing.T) {
		t.Setenv("NOTIFY_HTTP_TIMEOUT", "10s")
		t.Setenv("PUSHDEER_SERVER", "https://pushdeer.self.example")
		t.Setenv("BARK_URL", "https://bark.self.example/push")
		t.Setenv("WECOM_PIC_URL", "https://img.example/cover.png")

		cfg := LoadNotifierConfig()

		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, "https://pushdeer.self.example", cfg.PushDeerServer)
		assert.Equal(t, "https://bark.self.example/push", cfg.BarkURL)
		assert.Equal(t, "https://img.example/cover.png", cfg.WeComPicURL)
		assert.Equal(t, notifier.DefaultWeComHost, cfg.WeComHost)
	})

	t.Run("TC-3: should fall back on out-of-range timeouts", func(t *testing.T) {
		t.Setenv("NOTIFY_HTTP_TIMEOUT", "1h")

		cfg := LoadNotifierConfig()

		assert.Equal(t, notifier.DefaultTimeout, cfg.Timeout)
	})

	t.Run("TC-4: should ignore invalid URLs", func(t *testing.T) {
		t.Setenv("FEISHU_HOOK_URL", "not a url")

		cfg := LoadNotifierConfig()

		assert.Equal(t, notifier.DefaultFeishuHookURL, cfg.FeishuHookURL)
	})
}
