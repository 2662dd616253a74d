package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records projection refreshes and transition outcomes per table.
type SyncMetrics struct {
	refreshDuration   *prometheus.HistogramVec
	refreshFailure    *prometheus.CounterVec
	transitionSuccess *prometheus.CounterVec
	transitionFailure *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	refreshDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projection_refresh_duration_seconds",
		Help:    "Duration of full projection refetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"table"})
	refreshFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "projection_refresh_failure",
		Help: "Failed projection refetches.",
	}, []string{"table"})
	transitionSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "record_transition_success",
		Help: "Accepted status transitions.",
	}, []string{"table"})
	transitionFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "record_transition_failure",
		Help: "Rejected or failed status transitions.",
	}, []string{"table"})
	reg.MustRegister(refreshDuration, refreshFailure, transitionSuccess, transitionFailure)
	return &SyncMetrics{
		refreshDuration:   refreshDuration,
		refreshFailure:    refreshFailure,
		transitionSuccess: transitionSuccess,
		transitionFailure: transitionFailure,
	}
}

// ObserveRefresh records the duration of a completed full refetch.
func (s *SyncMetrics) ObserveRefresh(table string, duration time.Duration) {
	if s == nil || s.refreshDuration == nil {
		return
	}
	s.refreshDuration.WithLabelValues(normalizeLabel(table)).Observe(duration.Seconds())
}

// IncRefreshFailure increments the refresh failure counter for the table.
func (s *SyncMetrics) IncRefreshFailure(table string) {
	if s == nil || s.refreshFailure == nil {
		return
	}
	s.refreshFailure.WithLabelValues(normalizeLabel(table)).Inc()
}

// IncTransitionSuccess increments the accepted-transition counter for the table.
func (s *SyncMetrics) IncTransitionSuccess(table string) {
	if s == nil || s.transitionSuccess == nil {
		return
	}
	s.transitionSuccess.WithLabelValues(normalizeLabel(table)).Inc()
}

// IncTransitionFailure increments the rejected-transition counter for the table.
func (s *SyncMetrics) IncTransitionFailure(table string) {
	if s == nil || s.transitionFailure == nil {
		return
	}
	s.transitionFailure.WithLabelValues(normalizeLabel(table)).Inc()
}

func normalizeLabel(table string) string {
	if table == "" {
		return "unknown"
	}
	return table
}
