package worker

import (
	"msgsend/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run statuses recorded by RecordRun.
const (
	RunStatusSuccess = "success"
	RunStatusPartial = "partial"
	RunStatusFailure = "failure"
)

// WorkerMetrics holds the scheduled broadcaster's metrics. Configuration health
// comes from the embedded ConfigMetrics (worker_config_*).
type WorkerMetrics struct {
	*config.ConfigMetrics

	// RunsTotal counts scheduled dispatch runs by status.
	RunsTotal *prometheus.CounterVec

	// RunDurationSeconds measures one whole dispatch run.
	RunDurationSeconds prometheus.Histogram

	// ChannelsTotal counts per-channel results of scheduled runs by outcome.
	ChannelsTotal *prometheus.CounterVec

	// LastSuccessTimestamp is the Unix time of the last run that delivered at least once.
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with the default registry.
// Call it once per process.
func NewWorkerMetrics() *WorkerMetrics {
	return NewWorkerMetricsWith(prometheus.DefaultRegisterer)
}

// NewWorkerMetricsWith registers the worker metrics with reg.
func NewWorkerMetricsWith(reg prometheus.Registerer) *WorkerMetrics {
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetricsWith(f, "worker"),

		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_dispatch_runs_total",
			Help: "Total number of scheduled dispatch runs by status (success/partial/failure)",
		}, []string{"status"}),

		RunDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_dispatch_duration_seconds",
			Help:    "Duration of scheduled dispatch runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),

		ChannelsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_dispatch_channels_total",
			Help: "Total number of channel results across scheduled runs by outcome",
		}, []string{"outcome"}),

		LastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_dispatch_last_success_timestamp",
			Help: "Unix timestamp of the last scheduled run that delivered to at least one channel",
		}),
	}
}

// RecordRun records one run's status and duration.
func (m *WorkerMetrics) RecordRun(status string, seconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(seconds)
}

// RecordChannels adds n results with the given outcome label.
func (m *WorkerMetrics) RecordChannels(outcome string, n int) {
	if n <= 0 {
		return
	}
	m.ChannelsTotal.WithLabelValues(outcome).Add(float64(n))
}

// RecordLastSuccess sets the last-success gauge to now.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}

// RunStatus derives the run status from the number of delivered and failed channels.
// A run with nothing delivered is a failure; one with some failures is partial.
func RunStatus(delivered, failed int) string {
	switch {
	case delivered == 0:
		return RunStatusFailure
	case failed > 0:
		return RunStatusPartial
	default:
		return RunStatusSuccess
	}
}
