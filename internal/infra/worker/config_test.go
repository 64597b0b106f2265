package worker

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workerEnvKeys = []string{
	"CRON_SCHEDULE",
	"WORKER_TIMEZONE",
	"SEND_TIMEOUT",
	"WORKER_HEALTH_PORT",
	"METRICS_PORT",
	"NOTIFY_TITLE",
	"NOTIFY_CONTENT",
	"NOTIFY_CREDENTIALS_FILE",
}

// setWorkerEnv clears every worker variable, then applies env.
func setWorkerEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range workerEnvKeys {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func validConfig() WorkerConfig {
	cfg := DefaultConfig()
	cfg.Content = "daily check-in finished"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0 9 * * *", cfg.CronSchedule)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 2*time.Minute, cfg.SendTimeout)
	assert.Equal(t, 9091, cfg.HealthPort)
	assert.Equal(t, 9090, cfg.MetricsPort)
	assert.Equal(t, "msgsend", cfg.Title)
	assert.Empty(t, cfg.Content)
	assert.Empty(t, cfg.CredentialsFile)
}

func TestDefaultConfig_ReturnsFreshValue(t *testing.T) {
	a := DefaultConfig()
	a.CronSchedule = "@hourly"

	assert.Equal(t, "0 9 * * *", DefaultConfig().CronSchedule)
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WorkerConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*WorkerConfig) {}},
		{name: "descriptor schedule", mutate: func(c *WorkerConfig) { c.CronSchedule = "@every 30m" }},
		{name: "bad schedule", mutate: func(c *WorkerConfig) { c.CronSchedule = "daily" }, wantErr: "cron schedule"},
		{name: "bad timezone", mutate: func(c *WorkerConfig) { c.Timezone = "Moon/Base" }, wantErr: "timezone"},
		{name: "timeout too short", mutate: func(c *WorkerConfig) { c.SendTimeout = 10 * time.Millisecond }, wantErr: "send timeout"},
		{name: "timeout too long", mutate: func(c *WorkerConfig) { c.SendTimeout = time.Hour }, wantErr: "send timeout"},
		{name: "privileged health port", mutate: func(c *WorkerConfig) { c.HealthPort = 80 }, wantErr: "health port"},
		{name: "metrics port too high", mutate: func(c *WorkerConfig) { c.MetricsPort = 70000 }, wantErr: "metrics port"},
		{name: "same ports", mutate: func(c *WorkerConfig) { c.MetricsPort = c.HealthPort }, wantErr: "must differ"},
		{name: "blank content", mutate: func(c *WorkerConfig) { c.Content = "  \n" }, wantErr: "NOTIFY_CONTENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWorkerConfig_Validate_ReportsAllErrors(t *testing.T) {
	cfg := WorkerConfig{CronSchedule: "nope", Timezone: "Nowhere/City", HealthPort: 1, MetricsPort: 2}

	err := cfg.Validate()

	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"cron schedule", "timezone", "send timeout", "health port", "metrics port"} {
		assert.Contains(t, msg, want)
	}
	assert.True(t, errors.Is(err, ErrMissingContent))
}

func TestWorkerConfig_Location(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Asia/Shanghai"
	assert.Equal(t, "Asia/Shanghai", cfg.Location().String())

	cfg.Timezone = "Invalid/Zone"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadConfigFromEnv_AllValid(t *testing.T) {
	setWorkerEnv(t, map[string]string{
		"CRON_SCHEDULE":           "30 8 * * 1-5",
		"WORKER_TIMEZONE":         "Asia/Shanghai",
		"SEND_TIMEOUT":            "45s",
		"WORKER_HEALTH_PORT":      "8081",
		"METRICS_PORT":            "8082",
		"NOTIFY_TITLE":            "Check-in",
		"NOTIFY_CONTENT":          "line one\nline two",
		"NOTIFY_CREDENTIALS_FILE": "/etc/msgsend/credentials.yaml",
	})
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	metrics := newTestWorkerMetrics(t)

	cfg, err := LoadConfigFromEnv(logger, metrics)

	require.NoError(t, err)
	assert.Equal(t, WorkerConfig{
		CronSchedule:    "30 8 * * 1-5",
		Timezone:        "Asia/Shanghai",
		SendTimeout:     45 * time.Second,
		HealthPort:      8081,
		MetricsPort:     8082,
		Title:           "Check-in",
		Content:         "line one\nline two",
		CredentialsFile: "/etc/msgsend/credentials.yaml",
	}, *cfg)
	assert.Empty(t, buf.String())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), 0.0)
}

func TestLoadConfigFromEnv_DefaultsWhenUnset(t *testing.T) {
	setWorkerEnv(t, map[string]string{"NOTIFY_CONTENT": "hello"})
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg, err := LoadConfigFromEnv(logger, newTestWorkerMetrics(t))

	require.NoError(t, err)
	want := DefaultConfig()
	want.Content = "hello"
	assert.Equal(t, want, *cfg)
	assert.Empty(t, buf.String(), "missing variables are not fallbacks")
}

func TestLoadConfigFromEnv_FallbackPerField(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
		check func(t *testing.T, cfg *WorkerConfig)
	}{
		{
			name: "cron", key: "CRON_SCHEDULE", value: "every day", field: "cron_schedule",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, "0 9 * * *", cfg.CronSchedule) },
		},
		{
			name: "timezone", key: "WORKER_TIMEZONE", value: "Atlantis/Capital", field: "timezone",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, "UTC", cfg.Timezone) },
		},
		{
			name: "timeout format", key: "SEND_TIMEOUT", value: "soon", field: "send_timeout",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, 2*time.Minute, cfg.SendTimeout) },
		},
		{
			name: "timeout range", key: "SEND_TIMEOUT", value: "30m", field: "send_timeout",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, 2*time.Minute, cfg.SendTimeout) },
		},
		{
			name: "health port", key: "WORKER_HEALTH_PORT", value: "443", field: "health_port",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, 9091, cfg.HealthPort) },
		},
		{
			name: "metrics port", key: "METRICS_PORT", value: "abc", field: "metrics_port",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, 9090, cfg.MetricsPort) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setWorkerEnv(t, map[string]string{"NOTIFY_CONTENT": "hello", tt.key: tt.value})
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			metrics := newTestWorkerMetrics(t)

			cfg, err := LoadConfigFromEnv(logger, metrics)

			require.NoError(t, err, "fallbacks never fail the load")
			tt.check(t, cfg)
			assert.Contains(t, buf.String(), "Configuration fallback applied")
			assert.Contains(t, buf.String(), tt.key)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues(tt.field)))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues(tt.field)))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbackActive))
		})
	}
}

func TestLoadConfigFromEnv_ConflictingPortsFallBack(t *testing.T) {
	setWorkerEnv(t, map[string]string{
		"NOTIFY_CONTENT":     "hello",
		"WORKER_HEALTH_PORT": "8080",
		"METRICS_PORT":       "8080",
	})
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	metrics := newTestWorkerMetrics(t)

	cfg, err := LoadConfigFromEnv(logger, metrics)

	require.NoError(t, err)
	assert.Equal(t, 9091, cfg.HealthPort)
	assert.Equal(t, 9090, cfg.MetricsPort)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("ports")))
}

func TestLoadConfigFromEnv_MultipleFallbacks(t *testing.T) {
	setWorkerEnv(t, map[string]string{
		"NOTIFY_CONTENT":  "hello",
		"CRON_SCHEDULE":   "bad",
		"WORKER_TIMEZONE": "bad",
		"SEND_TIMEOUT":    "bad",
	})
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg, err := LoadConfigFromEnv(logger, newTestWorkerMetrics(t))

	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, strings.Count(buf.String(), "Configuration fallback applied"))
}

func TestLoadConfigFromEnv_BlankTitleFallsBack(t *testing.T) {
	setWorkerEnv(t, map[string]string{"NOTIFY_CONTENT": "hello", "NOTIFY_TITLE": "   "})

	cfg, err := LoadConfigFromEnv(discardLogger(), newTestWorkerMetrics(t))

	require.NoError(t, err)
	assert.Equal(t, "msgsend", cfg.Title)
}

func TestLoadConfigFromEnv_MissingContent(t *testing.T) {
	for _, v := range []string{"", "   "} {
		setWorkerEnv(t, map[string]string{"NOTIFY_CONTENT": v})

		cfg, err := LoadConfigFromEnv(discardLogger(), newTestWorkerMetrics(t))

		assert.ErrorIs(t, err, ErrMissingContent)
		require.NotNil(t, cfg, "the rest of the configuration is still returned")
		assert.Equal(t, "0 9 * * *", cfg.CronSchedule)
	}
}

func TestLoadConfigFromEnv_ContentKeepsWhitespace(t *testing.T) {
	setWorkerEnv(t, map[string]string{"NOTIFY_CONTENT": "  indented\n\n"})

	cfg, err := LoadConfigFromEnv(discardLogger(), newTestWorkerMetrics(t))

	require.NoError(t, err)
	assert.Equal(t, "  indented\n\n", cfg.Content)
}
