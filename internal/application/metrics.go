package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeUnavailable  = "unavailable"
	outcomeInvalid      = "invalid"
	outcomeStoreFailure = "store_failure"
)

// Metrics contains Prometheus metrics for notification cleanup.
type Metrics struct {
	cleanupRuns    *prometheus.CounterVec
	cleanupDeleted *prometheus.CounterVec
}

// NewMetrics registers the cleanup collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cleanupRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_notification_cleanup_runs_total",
				Help: "Total number of notification cleanup runs by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),
		cleanupDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_notification_cleanup_deleted_total",
				Help: "Total number of notifications removed by cleanup",
			},
			[]string{"trigger"},
		),
	}
}

func (m *Metrics) observeRun(trigger Trigger, outcome string, deleted int64) {
	if m == nil {
		return
	}
	m.cleanupRuns.WithLabelValues(string(trigger), outcome).Inc()
	if deleted > 0 {
		m.cleanupDeleted.WithLabelValues(string(trigger)).Add(float64(deleted))
	}
}
