package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string // "" means unset
		defaultValue string
		validator    func(string) error
		wantValue    string
		wantFallback bool
	}{
		{
			name:         "unset variable uses default without warning",
			defaultValue: "0 6 * * *",
			validator:    ValidateCronSchedule,
			wantValue:    "0 6 * * *",
		},
		{
			name:         "valid schedule from env",
			envValue:     "*/15 * * * *",
			defaultValue: "0 6 * * *",
			validator:    ValidateCronSchedule,
			wantValue:    "*/15 * * * *",
		},
		{
			name:         "invalid schedule falls back",
			envValue:     "not a schedule",
			defaultValue: "0 6 * * *",
			validator:    ValidateCronSchedule,
			wantValue:    "0 6 * * *",
			wantFallback: true,
		},
		{
			name:         "nil validator accepts anything",
			envValue:     "whatever",
			defaultValue: "fallback",
			wantValue:    "whatever",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("STATS_SCHEDULE", tt.envValue)
			}

			result := LoadEnvWithFallback("STATS_SCHEDULE", tt.defaultValue, tt.validator)

			assert.Equal(t, tt.wantValue, result.Value.(string))
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantFallback {
				require.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "STATS_SCHEDULE")
				assert.Contains(t, result.Warnings[0], tt.defaultValue)
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestLoadEnvDuration(t *testing.T) {
	inRange := func(d time.Duration) error {
		return ValidateDuration(d, time.Second, 5*time.Minute)
	}

	tests := []struct {
		name         string
		envValue     string
		wantValue    time.Duration
		wantFallback bool
	}{
		{name: "unset uses default", wantValue: 30 * time.Second},
		{name: "valid duration", envValue: "45s", wantValue: 45 * time.Second},
		{name: "unparseable falls back", envValue: "soon", wantValue: 30 * time.Second, wantFallback: true},
		{name: "out of range falls back", envValue: "2h", wantValue: 30 * time.Second, wantFallback: true},
		{name: "below range falls back", envValue: "10ms", wantValue: 30 * time.Second, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("SHUTDOWN_TIMEOUT", tt.envValue)
			}

			result := LoadEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second, inRange)

			assert.Equal(t, tt.wantValue, result.Value.(time.Duration))
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	concurrency := func(v int) error {
		return ValidateIntRange(v, 1, 50)
	}

	tests := []struct {
		name         string
		envValue     string
		wantValue    int
		wantFallback bool
	}{
		{name: "unset uses default", wantValue: 10},
		{name: "valid value", envValue: "25", wantValue: 25},
		{name: "not a number falls back", envValue: "many", wantValue: 10, wantFallback: true},
		{name: "trailing garbage rejected", envValue: "25x", wantValue: 10, wantFallback: true},
		{name: "zero is out of range", envValue: "0", wantValue: 10, wantFallback: true},
		{name: "above limit falls back", envValue: "500", wantValue: 10, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("NOTIFY_MAX_CONCURRENT", tt.envValue)
			}

			result := LoadEnvInt("NOTIFY_MAX_CONCURRENT", 10, concurrency)

			assert.Equal(t, tt.wantValue, result.Value.(int))
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}
