package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "daily stats report", schedule: "0 6 * * *"},
		{name: "every fifteen minutes", schedule: "*/15 * * * *"},
		{name: "weekdays only", schedule: "30 9 * * 1-5"},
		{name: "empty", schedule: "", wantErr: true},
		{name: "too few fields", schedule: "0 6 * *", wantErr: true},
		{name: "minute out of range", schedule: "99 6 * * *", wantErr: true},
		{name: "free text", schedule: "every morning", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "utc", timezone: "UTC"},
		{name: "iana name", timezone: "America/New_York"},
		{name: "empty", timezone: "", wantErr: true},
		{name: "offset instead of name", timezone: "+09:00", wantErr: true},
		{name: "misspelled", timezone: "Europe/Londn", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimezone(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	min, max := time.Second, 5*time.Minute

	assert.NoError(t, ValidateDuration(30*time.Second, min, max))
	assert.NoError(t, ValidateDuration(min, min, max), "minimum is inclusive")
	assert.NoError(t, ValidateDuration(max, min, max), "maximum is inclusive")
	assert.Error(t, ValidateDuration(time.Millisecond, min, max))
	assert.Error(t, ValidateDuration(time.Hour, min, max))
	assert.Error(t, ValidateDuration(time.Second, max, min), "inverted range is rejected")
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(10, 1, 50))
	assert.NoError(t, ValidateIntRange(1, 1, 50), "minimum is inclusive")
	assert.NoError(t, ValidateIntRange(50, 1, 50), "maximum is inclusive")
	assert.Error(t, ValidateIntRange(0, 1, 50))
	assert.Error(t, ValidateIntRange(51, 1, 50))
	assert.Error(t, ValidateIntRange(10, 50, 1), "inverted range is rejected")
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.NoError(t, ValidatePositiveDuration(30*time.Second))
	assert.Error(t, ValidatePositiveDuration(0), "zero would mean no limit")
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}
