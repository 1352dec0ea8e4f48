package worker

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Metrics register with the default Prometheus registry, so tests share a
// single instance.
var (
	testMetricsOnce sync.Once
	testMetrics     *WorkerMetrics
)

func sharedMetrics() *WorkerMetrics {
	testMetricsOnce.Do(func() {
		testMetrics = NewWorkerMetrics()
	})
	return testMetrics
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WorkerConfig)
		wantOK bool
	}{
		{
			name:   "defaults pass",
			mutate: func(c *WorkerConfig) {},
			wantOK: true,
		},
		{
			name:   "bad cron schedule",
			mutate: func(c *WorkerConfig) { c.StatsSchedule = "not a schedule" },
		},
		{
			name:   "bad timezone",
			mutate: func(c *WorkerConfig) { c.Timezone = "Mars/Olympus" },
		},
		{
			name:   "concurrency out of range",
			mutate: func(c *WorkerConfig) { c.NotifyMaxConcurrent = 0 },
		},
		{
			name:   "negative shutdown timeout",
			mutate: func(c *WorkerConfig) { c.ShutdownTimeout = -time.Second },
		},
		{
			name:   "privileged health port",
			mutate: func(c *WorkerConfig) { c.HealthPort = 80 },
		},
		{
			name:   "metrics port out of range",
			mutate: func(c *WorkerConfig) { c.MetricsPort = 70000 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv(slog.Default(), sharedMetrics())

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("STATS_SCHEDULE", "15 7 * * *")
	t.Setenv("WORKER_TIMEZONE", "America/New_York")
	t.Setenv("NOTIFY_MAX_CONCURRENT", "25")
	t.Setenv("SHUTDOWN_TIMEOUT", "45s")
	t.Setenv("WORKER_HEALTH_PORT", "9191")
	t.Setenv("WORKER_METRICS_PORT", "9190")

	cfg, err := LoadConfigFromEnv(slog.Default(), sharedMetrics())

	require.NoError(t, err)
	assert.Equal(t, "15 7 * * *", cfg.StatsSchedule)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, 25, cfg.NotifyMaxConcurrent)
	assert.Equal(t, 45*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 9191, cfg.HealthPort)
	assert.Equal(t, 9190, cfg.MetricsPort)
}

func TestLoadConfigFromEnv_FallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("STATS_SCHEDULE", "every now and then")
	t.Setenv("NOTIFY_MAX_CONCURRENT", "500")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg, err := LoadConfigFromEnv(slog.Default(), sharedMetrics())

	require.NoError(t, err)
	defaults := DefaultConfig()
	assert.Equal(t, defaults.StatsSchedule, cfg.StatsSchedule)
	assert.Equal(t, defaults.NotifyMaxConcurrent, cfg.NotifyMaxConcurrent)
	assert.Equal(t, defaults.ShutdownTimeout, cfg.ShutdownTimeout)
	assert.NoError(t, cfg.Validate(), "fail-open loading must always yield a valid config")
}
