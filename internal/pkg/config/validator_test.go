package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	valid := []string{
		"0 9 * * *",
		"*/15 * * * *",
		"30 8 * * 1-5",
		"0 0 1 * *",
		"0 9,18 * * *",
		"@daily",
		"@every 1h",
	}
	for _, s := range valid {
		t.Run("valid/"+s, func(t *testing.T) {
			assert.NoError(t, ValidateCronSchedule(s))
		})
	}

	invalid := []string{
		"",
		"   ",
		"invalid",
		"0 9 * *",
		"0 0 9 * * *",
		"60 * * * *",
		"* 24 * * *",
		"@sometimes",
	}
	for _, s := range invalid {
		t.Run("invalid/"+s, func(t *testing.T) {
			assert.Error(t, ValidateCronSchedule(s))
		})
	}
}

func TestValidateCronSchedule_ErrorMessage(t *testing.T) {
	err := ValidateCronSchedule("bad cron")

	assert.ErrorContains(t, err, "invalid cron schedule 'bad cron'")
}

func TestValidateTimezone(t *testing.T) {
	for _, tz := range []string{"UTC", "Asia/Shanghai", "Asia/Tokyo", "America/New_York", "Europe/Berlin"} {
		t.Run(tz, func(t *testing.T) {
			assert.NoError(t, ValidateTimezone(tz))
		})
	}

	for _, tz := range []string{"", "Mars/Olympus", "GMT+25"} {
		t.Run("invalid/"+tz, func(t *testing.T) {
			assert.Error(t, ValidateTimezone(tz))
		})
	}
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		min     time.Duration
		max     time.Duration
		wantErr string
	}{
		{name: "inside", d: time.Minute, min: time.Second, max: time.Hour},
		{name: "at min", d: time.Second, min: time.Second, max: time.Hour},
		{name: "at max", d: time.Hour, min: time.Second, max: time.Hour},
		{name: "below", d: time.Millisecond, min: time.Second, max: time.Hour, wantErr: "below minimum"},
		{name: "above", d: 2 * time.Hour, min: time.Second, max: time.Hour, wantErr: "exceeds maximum"},
		{name: "inverted range", d: time.Minute, min: time.Hour, max: time.Second, wantErr: "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.d, tt.min, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr string
	}{
		{name: "inside", value: 9091, min: 1024, max: 65535},
		{name: "at min", value: 1024, min: 1024, max: 65535},
		{name: "at max", value: 65535, min: 1024, max: 65535},
		{name: "below", value: 1023, min: 1024, max: 65535, wantErr: "below minimum"},
		{name: "above", value: 65536, min: 1024, max: 65535, wantErr: "exceeds maximum"},
		{name: "inverted range", value: 5, min: 10, max: 1, wantErr: "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIntRange(tt.value, tt.min, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateNonEmpty(t *testing.T) {
	assert.NoError(t, ValidateNonEmpty("daily report"))
	assert.Error(t, ValidateNonEmpty(""))
	assert.Error(t, ValidateNonEmpty(" \t\n"))
}
