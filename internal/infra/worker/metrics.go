package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"crewdesk/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the worker process.
// It embeds the standard ConfigMetrics for configuration monitoring and adds
// worker-specific metrics for the periodic stats report.
//
// Worker-specific metrics:
//   - worker_stats_report_runs_total: report runs by status (success/failure)
//   - worker_stats_report_duration_seconds: report execution duration
//   - worker_stats_report_last_success_timestamp: Unix time of last success
type WorkerMetrics struct {
	*config.ConfigMetrics

	// StatsReportRunsTotal counts stats report runs by outcome.
	StatsReportRunsTotal *prometheus.CounterVec

	// StatsReportDurationSeconds measures stats report execution time.
	StatsReportDurationSeconds prometheus.Histogram

	// StatsReportLastSuccessTimestamp records the Unix timestamp of the
	// last successful report run.
	StatsReportLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance. Metrics are registered
// with the default registry via promauto on creation.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		StatsReportRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_stats_report_runs_total",
			Help: "Total number of delivery stats report runs by status",
		}, []string{"status"}),

		StatsReportDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_stats_report_duration_seconds",
			Help:    "Duration of delivery stats report runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 30, 60},
		}),

		StatsReportLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_stats_report_last_success_timestamp",
			Help: "Unix timestamp of the last successful stats report run",
		}),
	}
}

// RecordReportRun records one stats report run with its outcome
// ("success" or "failure").
func (m *WorkerMetrics) RecordReportRun(status string) {
	m.StatsReportRunsTotal.WithLabelValues(status).Inc()
}

// RecordReportDuration records the duration of a stats report run.
func (m *WorkerMetrics) RecordReportDuration(seconds float64) {
	m.StatsReportDurationSeconds.Observe(seconds)
}

// RecordLastSuccess marks the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.StatsReportLastSuccessTimestamp.SetToCurrentTime()
}
