package notify

import (
	"github.com/sony/gobreaker"
)

// ChannelHealthStatus represents the health status of a notification channel.
type ChannelHealthStatus struct {
	Name                string `json:"name"`
	State               string `json:"state"` // closed|half-open|open|untracked
	CircuitBreakerOpen  bool   `json:"circuit_breaker_open"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

// stateUntracked is reported for channels without a circuit breaker.
const stateUntracked = "untracked"

// ChannelHealth returns the breaker state of every registered channel in
// registration order. Without WithCircuitBreakers every channel is "untracked".
func (d *Dispatcher) ChannelHealth() []ChannelHealthStatus {
	names := d.registry.Names()
	statuses := make([]ChannelHealthStatus, 0, len(names))

	for _, name := range names {
		status := ChannelHealthStatus{Name: name, State: stateUntracked}
		if cb, ok := d.breakers[name]; ok {
			state := cb.State()
			status.State = state.String()
			status.CircuitBreakerOpen = state == gobreaker.StateOpen
			status.ConsecutiveFailures = cb.Counts().ConsecutiveFailures
		}
		statuses = append(statuses, status)
	}

	return statuses
}
