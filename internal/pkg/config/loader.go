// Package config provides fail-open environment loading for operational
// settings. A value that is unset, unparseable or out of range never aborts
// startup: the caller gets the default back, plus a warning it can log and
// count, so a typo in one variable cannot take the worker down.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult is the outcome of loading one configuration value.
//
// Value holds the effective value, which is the default whenever the
// variable was unset or rejected. FallbackApplied is true only when a set
// value was rejected (an unset variable is a normal default, not a
// fallback); Warnings then carries one operator-facing message per
// rejection.
//
// Example:
//
//	result := LoadEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second, ValidatePositiveDuration)
//	for _, w := range result.Warnings {
//	    slog.Warn(w)
//	}
//	timeout := result.Value.(time.Duration)
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

func accepted(v interface{}) ConfigLoadResult {
	return ConfigLoadResult{Value: v}
}

func rejected(envKey, raw string, reason error, defaultValue interface{}) ConfigLoadResult {
	return ConfigLoadResult{
		Value: defaultValue,
		Warnings: []string{fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'",
			envKey, raw, reason, defaultValue)},
		FallbackApplied: true,
	}
}

// LoadEnvWithFallback loads a string from the environment, validates it
// with the given validator (nil skips validation) and falls back to the
// default when validation rejects the value.
//
// Example:
//
//	result := LoadEnvWithFallback("STATS_SCHEDULE", "0 6 * * *", ValidateCronSchedule)
//	schedule := result.Value.(string)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return accepted(defaultValue)
	}

	if validator != nil {
		if err := validator(raw); err != nil {
			return rejected(envKey, raw, err, defaultValue)
		}
	}
	return accepted(raw)
}

// LoadEnvDuration loads a Go duration string ("30s", "5m", "1h30m") from
// the environment, validates the parsed value (nil skips validation) and
// falls back to the default when parsing or validation fails.
//
// Example:
//
//	result := LoadEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second, func(d time.Duration) error {
//	    return ValidateDuration(d, time.Second, 5*time.Minute)
//	})
//	timeout := result.Value.(time.Duration)
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return accepted(defaultValue)
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return rejected(envKey, raw, err, defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return rejected(envKey, raw, err, defaultValue)
		}
	}
	return accepted(parsed)
}

// LoadEnvInt loads an integer from the environment, validates it (nil
// skips validation) and falls back to the default when parsing or
// validation fails. Parsing is strict: trailing characters reject the
// value rather than being ignored.
//
// Example:
//
//	result := LoadEnvInt("NOTIFY_MAX_CONCURRENT", 10, func(v int) error {
//	    return ValidateIntRange(v, 1, 50)
//	})
//	maxConcurrent := result.Value.(int)
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return accepted(defaultValue)
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return rejected(envKey, raw, fmt.Errorf("invalid integer format"), defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return rejected(envKey, raw, err, defaultValue)
		}
	}
	return accepted(parsed)
}
