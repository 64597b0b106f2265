// Package slo tracks delivery objectives of scheduled dispatches.
package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Targets for scheduled runs.
const (
	// DeliveryRatioSLO is the share of attempted channels that should accept a message.
	DeliveryRatioSLO = 0.95

	// ErrorRateSLO is the highest acceptable share of attempts ending in an unhandled error.
	ErrorRateSLO = 0.01
)

var (
	// SLODeliveryRatio is delivered / attempted for the most recent run.
	SLODeliveryRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_delivery_ratio",
			Help: "Delivered share of attempted channels in the last run (0-1), target: 0.95",
		},
	)

	// SLOErrorRate is failed / attempted for the most recent run.
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "Unhandled-error share of attempted channels in the last run (0-1), target: 0.01",
		},
	)
)

// Attempts counts channel results of one run. Skipped channels are not attempts.
type Attempts struct {
	Succeeded int
	Rejected  int
	Failed    int
}

// Total returns the number of attempts.
func (a Attempts) Total() int {
	return a.Succeeded + a.Rejected + a.Failed
}

// DeliveryRatio returns Succeeded / Total, or 1 when nothing was attempted.
func (a Attempts) DeliveryRatio() float64 {
	if a.Total() == 0 {
		return 1
	}
	return float64(a.Succeeded) / float64(a.Total())
}

// ErrorRate returns Failed / Total, or 0 when nothing was attempted.
func (a Attempts) ErrorRate() float64 {
	if a.Total() == 0 {
		return 0
	}
	return float64(a.Failed) / float64(a.Total())
}

// MeetsTargets reports whether a satisfies both objectives.
func (a Attempts) MeetsTargets() bool {
	return a.DeliveryRatio() >= DeliveryRatioSLO && a.ErrorRate() <= ErrorRateSLO
}

// Update sets the gauges from a. A run without attempts leaves them unchanged.
func Update(a Attempts) {
	if a.Total() == 0 {
		return
	}
	SLODeliveryRatio.Set(a.DeliveryRatio())
	SLOErrorRate.Set(a.ErrorRate())
}
