package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Component names are unique per test: promauto registers on the default
// registry, and a duplicate name panics.

func TestNewConfigMetrics_RegistersAllMetrics(t *testing.T) {
	m := NewConfigMetrics("testcfg_register")

	require.NotNil(t, m.LoadTimestamp)
	require.NotNil(t, m.ValidationErrorsTotal)
	require.NotNil(t, m.FallbacksTotal)
	require.NotNil(t, m.FallbackActive)
	assert.Equal(t, "testcfg_register", m.componentName)
}

func TestConfigMetrics_CountsPerField(t *testing.T) {
	m := NewConfigMetrics("testcfg_fields")

	m.RecordValidationError("stats_schedule")
	m.RecordValidationError("stats_schedule")
	m.RecordFallback("stats_schedule")
	m.RecordFallback("timezone")

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("stats_schedule")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("stats_schedule")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone")))
	assert.Equal(t, float64(0),
		testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("shutdown_timeout")))
}

func TestConfigMetrics_FallbackActiveGauge(t *testing.T) {
	m := NewConfigMetrics("testcfg_gauge")

	assert.Equal(t, float64(0), testutil.ToFloat64(m.FallbackActive))

	m.SetFallbackActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbackActive))

	m.SetFallbackActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.FallbackActive))
}

func TestConfigMetrics_LoadTimestampAdvances(t *testing.T) {
	m := NewConfigMetrics("testcfg_timestamp")

	assert.Equal(t, float64(0), testutil.ToFloat64(m.LoadTimestamp))
	m.RecordLoadTimestamp()
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), float64(0))
}
