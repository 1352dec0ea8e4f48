// Package worker provides the runtime scaffolding for the notification
// worker process: configuration loading, health endpoints and operational
// metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"crewdesk/internal/pkg/config"
)

// WorkerConfig holds the configuration for the worker process.
//
// All fields have defaults and validation rules; loading follows a
// fail-open strategy so the worker can start even with invalid or missing
// configuration, falling back to defaults with a logged warning.
type WorkerConfig struct {
	// StatsSchedule is the cron expression for the periodic delivery
	// stats report. Default: "0 6 * * *" (daily at 06:00).
	StatsSchedule string

	// Timezone is the IANA timezone name used for cron scheduling.
	// Default: "UTC".
	Timezone string

	// NotifyMaxConcurrent caps concurrent channel sends across all
	// dispatches. Range: 1-50. Default: 10.
	NotifyMaxConcurrent int

	// ShutdownTimeout bounds how long the worker waits for in-flight
	// dispatches during graceful shutdown. Default: 30s.
	ShutdownTimeout time.Duration

	// HealthPort is the port for the health check HTTP server.
	// Range: 1024-65535. Default: 9091.
	HealthPort int

	// MetricsPort is the port for the Prometheus metrics HTTP server.
	// Range: 1024-65535. Default: 9090.
	MetricsPort int
}

// DefaultConfig returns a WorkerConfig with production-ready defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		StatsSchedule:       "0 6 * * *",
		Timezone:            "UTC",
		NotifyMaxConcurrent: 10,
		ShutdownTimeout:     30 * time.Second,
		HealthPort:          9091,
		MetricsPort:         9090,
	}
}

// Validate checks every field and returns the aggregated errors, if any.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.StatsSchedule); err != nil {
		errs = append(errs, fmt.Errorf("stats schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.NotifyMaxConcurrent, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("notify max concurrent: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("shutdown timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to defaults on failure.
//
// Environment variables:
//   - STATS_SCHEDULE: cron expression (default "0 6 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "UTC")
//   - NOTIFY_MAX_CONCURRENT: integer 1-50 (default 10)
//   - SHUTDOWN_TIMEOUT: duration string, e.g. "30s" (default 30s)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default 9091)
//   - WORKER_METRICS_PORT: integer 1024-65535 (default 9090)
//
// The returned config is always valid; the error is always nil and exists
// for call-site symmetry with stricter loaders.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, result config.ConfigLoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field)
		for _, warning := range result.Warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("STATS_SCHEDULE", cfg.StatsSchedule, config.ValidateCronSchedule)
	cfg.StatsSchedule = result.Value.(string)
	warn("stats_schedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	warn("timezone", result)

	result = config.LoadEnvInt("NOTIFY_MAX_CONCURRENT", cfg.NotifyMaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	cfg.NotifyMaxConcurrent = result.Value.(int)
	warn("notify_max_concurrent", result)

	result = config.LoadEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 5*time.Minute)
	})
	cfg.ShutdownTimeout = result.Value.(time.Duration)
	warn("shutdown_timeout", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	warn("health_port", result)

	result = config.LoadEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.MetricsPort = result.Value.(int)
	warn("metrics_port", result)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
