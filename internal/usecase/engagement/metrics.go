package engagement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// engagementTrackedTotal counts newly inserted engagement records
	engagementTrackedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_tracked_total",
			Help: "Total number of engagement records created",
		},
		[]string{"action"},
	)

	// engagementDuplicatesTotal counts suppressed duplicate engagements
	engagementDuplicatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_duplicates_total",
			Help: "Total number of duplicate engagements suppressed by the dedup window",
		},
		[]string{"action"},
	)
)

// RecordTracked records a newly created engagement record.
func RecordTracked(action string) {
	engagementTrackedTotal.WithLabelValues(action).Inc()
}

// RecordDuplicate records a suppressed duplicate engagement.
func RecordDuplicate(action string) {
	engagementDuplicatesTotal.WithLabelValues(action).Inc()
}
