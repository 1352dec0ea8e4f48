package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the notification dispatch engine
var (
	// notificationDispatchedTotal tracks send attempts started per channel
	notificationDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatched_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"channel"},
	)

	// notificationSentTotal tracks terminal send outcomes per channel
	notificationSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sent_total",
			Help: "Total number of notifications sent",
		},
		[]string{"channel", "status"}, // status: success|failure
	)

	// notificationDuration tracks send duration including retries
	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_duration_seconds",
			Help:    "Notification send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30}, // 100ms to 30s
		},
		[]string{"channel"},
	)

	// notificationRetriesTotal tracks retry attempts per channel and cause
	notificationRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_retries_total",
			Help: "Total number of notification retry attempts",
		},
		[]string{"channel", "error_kind"},
	)

	// notificationDroppedTotal tracks notifications that never reached a transport
	notificationDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dropped_total",
			Help: "Total number of dropped notifications",
		},
		[]string{"channel", "reason"}, // reason: pool_full|disabled
	)

	// notificationLogSinkFailures tracks durable audit sink write failures
	notificationLogSinkFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_log_sink_failures_total",
			Help: "Total number of notification log sink write failures",
		},
	)

	// dispatchesInFlight tracks currently running dispatch fan-outs
	dispatchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_dispatches_in_flight",
			Help: "Number of dispatch operations currently running",
		},
	)

	// channelsEnabled tracks number of enabled channels
	channelsEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_channels_enabled",
			Help: "Number of enabled notification channels",
		},
	)
)

// RecordDispatch records that a send attempt has started on a channel.
func RecordDispatch(channel string) {
	notificationDispatchedTotal.WithLabelValues(channel).Inc()
}

// RecordSuccess records a successful delivery and its duration.
func RecordSuccess(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "success").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordFailure records a terminal delivery failure and its duration.
func RecordFailure(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "failure").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordRetry records one retry attempt and the error kind that caused it.
func RecordRetry(channel, errorKind string) {
	notificationRetriesTotal.WithLabelValues(channel, errorKind).Inc()
}

// RecordDropped records a notification that never reached a transport,
// e.g. because the worker pool was full.
func RecordDropped(channel, reason string) {
	notificationDroppedTotal.WithLabelValues(channel, reason).Inc()
}

// RecordLogSinkFailure records a durable audit sink write failure.
func RecordLogSinkFailure() {
	notificationLogSinkFailures.Inc()
}

// IncrementDispatchesInFlight increments the in-flight dispatch gauge.
func IncrementDispatchesInFlight() {
	dispatchesInFlight.Inc()
}

// DecrementDispatchesInFlight decrements the in-flight dispatch gauge.
func DecrementDispatchesInFlight() {
	dispatchesInFlight.Dec()
}

// SetChannelsEnabled sets the number of enabled notification channels.
func SetChannelsEnabled(count float64) {
	channelsEnabled.Set(count)
}
