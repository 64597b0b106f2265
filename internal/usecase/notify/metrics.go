package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for notification dispatch monitoring
var (
	// notificationDispatchedTotal tracks sender invocations per channel
	notificationDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatched_total",
			Help: "Total number of notifications handed to a sender",
		},
		[]string{"channel"},
	)

	// notificationSentTotal tracks notification send results per channel
	notificationSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sent_total",
			Help: "Total number of notification attempts by outcome",
		},
		[]string{"channel", "status"}, // status: success|rejected|failed
	)

	// notificationDuration tracks notification send duration
	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_duration_seconds",
			Help:    "Notification send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30}, // 100ms to 30s
		},
		[]string{"channel"},
	)

	// notificationSkippedTotal tracks channels that were not invoked
	notificationSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_skipped_total",
			Help: "Total number of channels skipped during dispatch",
		},
		[]string{"channel", "reason"}, // reason: unknown_channel|invalid_credential|circuit_open
	)

	// circuitBreakerOpenTotal tracks circuit breaker open events
	circuitBreakerOpenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_circuit_breaker_open_total",
			Help: "Total number of circuit breaker open events",
		},
		[]string{"channel"},
	)

	// dispatchTotal tracks SendAll calls
	dispatchTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_dispatch_runs_total",
			Help: "Total number of dispatch runs",
		},
	)

	// channelsRegistered tracks the size of the registry in use
	channelsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_channels_registered",
			Help: "Number of registered notification channels",
		},
	)
)

// RecordDispatch records that a sender is about to be invoked.
func RecordDispatch(channel string) {
	notificationDispatchedTotal.WithLabelValues(channel).Inc()
}

// RecordOutcome records the result of an invoked sender and its duration.
//
// Parameters:
//   - channel: The channel name (e.g., "bark_deviceKey")
//   - outcome: OutcomeSuccess, OutcomeRejected or OutcomeFailed
//   - duration: The time the sender took
func RecordOutcome(channel string, outcome Outcome, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, outcome.String()).Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordSkipped records a channel that was not invoked.
func RecordSkipped(channel string, reason string) {
	notificationSkippedTotal.WithLabelValues(channel, reason).Inc()
}

// RecordCircuitBreakerOpen records a circuit breaker open event.
func RecordCircuitBreakerOpen(channel string) {
	circuitBreakerOpenTotal.WithLabelValues(channel).Inc()
}

// RecordDispatchRun records one SendAll call.
func RecordDispatchRun() {
	dispatchTotal.Inc()
}

// SetChannelsRegistered sets the number of registered channels.
func SetChannelsRegistered(count float64) {
	channelsRegistered.Set(count)
}
