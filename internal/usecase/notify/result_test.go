package notify

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		outcome Outcome
		name    string
		code    int
		hasCode bool
	}{
		{OutcomeSuccess, "success", 0, true},
		{OutcomeRejected, "rejected", -1, true},
		{OutcomeFailed, "failed", -1, true},
		{OutcomeSkipped, "skipped", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.outcome.String())
			code, ok := tt.outcome.Code()
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.hasCode, ok)
		})
	}
}

func TestReport(t *testing.T) {
	report := Report{
		DispatchID: "d-1",
		Results: []Result{
			{Channel: "a", Outcome: OutcomeSuccess},
			{Channel: "b", Outcome: OutcomeRejected, Err: errors.New("no")},
			{Channel: "c", Outcome: OutcomeFailed, Err: errors.New("boom")},
			{Channel: "d", Outcome: OutcomeSkipped, Reason: SkipUnknownChannel},
		},
	}

	assert.Equal(t, 1, report.Succeeded())
	assert.Equal(t, 2, report.Failed())
	assert.Equal(t, 1, report.Count(OutcomeSkipped))
	assert.True(t, report.Delivered())

	res, ok := report.Result("c")
	require.True(t, ok)
	assert.Equal(t, OutcomeFailed, res.Outcome)

	_, ok = report.Result("missing")
	assert.False(t, ok)

	assert.False(t, Report{}.Delivered())
}

func TestResult_MarshalJSON(t *testing.T) {
	res := Result{
		Channel:  "bark_deviceKey",
		Outcome:  OutcomeRejected,
		Err:      errors.New("bark_deviceKey rejected the message"),
		Duration: 1500 * time.Millisecond,
	}

	data, err := json.Marshal(res)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"channel": "bark_deviceKey",
		"outcome": "rejected",
		"error": "bark_deviceKey rejected the message",
		"duration_ms": 1500
	}`, string(data))
}
