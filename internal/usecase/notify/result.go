package notify

import (
	"encoding/json"
	"time"
)

// Outcome classifies one channel attempt.
type Outcome int

const (
	// OutcomeSkipped means the sender was not invoked.
	OutcomeSkipped Outcome = iota
	// OutcomeSuccess means the vendor acknowledged the message.
	OutcomeSuccess
	// OutcomeRejected means the vendor answered but refused the message.
	OutcomeRejected
	// OutcomeFailed means the sender returned an unexpected error or panicked.
	OutcomeFailed
)

// String returns the lowercase outcome name used in logs, metrics and reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Code returns the integer status of an attempted send: 0 for success and -1
// for a rejection or failure. Skipped channels have no status and return 0
// with ok=false.
func (o Outcome) Code() (code int, ok bool) {
	switch o {
	case OutcomeSuccess:
		return 0, true
	case OutcomeRejected, OutcomeFailed:
		return -1, true
	default:
		return 0, false
	}
}

// MarshalText renders the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Skip reasons recorded on skipped results.
const (
	SkipUnknownChannel    = "unknown_channel"
	SkipInvalidCredential = "invalid_credential"
	SkipCircuitOpen       = "circuit_open"
)

// Result is the outcome of one channel within a dispatch.
type Result struct {
	Channel  string
	Outcome  Outcome
	Reason   string
	Err      error
	Duration time.Duration
}

// MarshalJSON renders the error as a string.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Channel    string  `json:"channel"`
		Outcome    Outcome `json:"outcome"`
		Reason     string  `json:"reason,omitempty"`
		Error      string  `json:"error,omitempty"`
		DurationMS int64   `json:"duration_ms"`
	}{
		Channel:    r.Channel,
		Outcome:    r.Outcome,
		Reason:     r.Reason,
		DurationMS: r.Duration.Milliseconds(),
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Report collects the results of one dispatch in credential order.
type Report struct {
	DispatchID string   `json:"dispatch_id"`
	Results    []Result `json:"results"`
}

// Count returns the number of results with the given outcome.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Succeeded returns the number of channels that acknowledged the message.
func (r Report) Succeeded() int {
	return r.Count(OutcomeSuccess)
}

// Failed returns the number of channels that were attempted and did not deliver.
func (r Report) Failed() int {
	return r.Count(OutcomeRejected) + r.Count(OutcomeFailed)
}

// Delivered reports whether at least one channel acknowledged the message.
func (r Report) Delivered() bool {
	return r.Succeeded() > 0
}

// Result returns the result for channel, if it took part in the dispatch.
func (r Report) Result(channel string) (Result, bool) {
	for _, res := range r.Results {
		if res.Channel == channel {
			return res, true
		}
	}
	return Result{}, false
}
