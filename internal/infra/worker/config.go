package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"msgsend/internal/pkg/config"
)

// ErrMissingContent is returned by LoadConfigFromEnv when NOTIFY_CONTENT is unset.
// It is the only setting without a usable default.
var ErrMissingContent = errors.New("NOTIFY_CONTENT must be set")

const (
	minSendTimeout = time.Second
	maxSendTimeout = 10 * time.Minute
	minPort        = 1024
	maxPort        = 65535
)

// WorkerConfig holds the settings of the scheduled broadcaster.
//
// Environment variables:
//   - CRON_SCHEDULE: five-field cron expression or descriptor (default: "0 9 * * *")
//   - WORKER_TIMEZONE: IANA zone the schedule is evaluated in (default: "UTC")
//   - SEND_TIMEOUT: deadline for one whole dispatch, 1s..10m (default: 2m)
//   - WORKER_HEALTH_PORT: health server port, 1024..65535 (default: 9091)
//   - METRICS_PORT: metrics server port, 1024..65535 (default: 9090)
//   - NOTIFY_TITLE: notification title (default: "msgsend")
//   - NOTIFY_CONTENT: notification body (required)
//   - NOTIFY_CREDENTIALS_FILE: YAML credentials file (default: none, environment only)
type WorkerConfig struct {
	CronSchedule    string
	Timezone        string
	SendTimeout     time.Duration
	HealthPort      int
	MetricsPort     int
	Title           string
	Content         string
	CredentialsFile string
}

// DefaultConfig returns the defaults. Content is left empty and must be supplied.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 9 * * *",
		Timezone:     "UTC",
		SendTimeout:  2 * time.Minute,
		HealthPort:   9091,
		MetricsPort:  9090,
		Title:        "msgsend",
	}
}

// Location resolves Timezone. An invalid zone yields UTC.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.SendTimeout, minSendTimeout, maxSendTimeout); err != nil {
		errs = append(errs, fmt.Errorf("send timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, minPort, maxPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, minPort, maxPort); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health port and metrics port must differ, both are %d", c.HealthPort))
	}
	if strings.TrimSpace(c.Content) == "" {
		errs = append(errs, ErrMissingContent)
	}

	return errors.Join(errs...)
}

// fallbackTracker applies one LoadResult, logging and counting fallbacks.
type fallbackTracker struct {
	logger  *slog.Logger
	metrics *WorkerMetrics
	applied bool
}

func track[T any](ft *fallbackTracker, field string, r config.LoadResult[T]) T {
	if r.FallbackApplied {
		ft.applied = true
		ft.metrics.RecordFallback(field)
		ft.logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", r.Warning))
	}
	return r.Value
}

// LoadConfigFromEnv loads WorkerConfig from the environment. Invalid values fall
// back to defaults with a warning and a fallback metric; the only error is
// ErrMissingContent.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	ft := &fallbackTracker{logger: logger, metrics: metrics}

	portRange := func(v int) error { return config.ValidateIntRange(v, minPort, maxPort) }

	cfg.CronSchedule = track(ft, "cron_schedule",
		config.LoadString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule))
	cfg.Timezone = track(ft, "timezone",
		config.LoadString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone))
	cfg.SendTimeout = track(ft, "send_timeout",
		config.LoadDuration("SEND_TIMEOUT", cfg.SendTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, minSendTimeout, maxSendTimeout)
		}))
	cfg.HealthPort = track(ft, "health_port",
		config.LoadInt("WORKER_HEALTH_PORT", cfg.HealthPort, portRange))
	cfg.MetricsPort = track(ft, "metrics_port",
		config.LoadInt("METRICS_PORT", cfg.MetricsPort, portRange))
	cfg.Title = track(ft, "title",
		config.LoadString("NOTIFY_TITLE", cfg.Title, config.ValidateNonEmpty))
	cfg.CredentialsFile = track(ft, "credentials_file",
		config.LoadString("NOTIFY_CREDENTIALS_FILE", cfg.CredentialsFile, nil))

	// Content keeps its inner whitespace; only blank values are rejected.
	content := config.Load("NOTIFY_CONTENT", "", func(s string) (string, error) { return s, nil }, nil)
	cfg.Content = content.Value

	if cfg.HealthPort == cfg.MetricsPort {
		d := DefaultConfig()
		ft.applied = true
		metrics.RecordFallback("ports")
		logger.Warn("Configuration fallback applied",
			slog.String("field", "ports"),
			slog.String("warning", fmt.Sprintf("health and metrics ports both %d, falling back to %d and %d",
				cfg.HealthPort, d.HealthPort, d.MetricsPort)))
		cfg.HealthPort, cfg.MetricsPort = d.HealthPort, d.MetricsPort
	}

	metrics.SetFallbackActive(ft.applied)
	metrics.RecordLoadTimestamp()

	if strings.TrimSpace(cfg.Content) == "" {
		return &cfg, ErrMissingContent
	}
	return &cfg, nil
}
