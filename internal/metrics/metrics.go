// Package metrics provides Prometheus metrics for republishing and Publishing API traffic
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors used by the back office
type Metrics struct {
	RepublishRunsTotal *prometheus.CounterVec
	RepublishDuration  prometheus.Histogram
	DraftSkipsTotal    prometheus.Counter
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	QueueJobsTotal     *prometheus.CounterVec
	RepublishingEvents *prometheus.CounterVec
}

// New creates and registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RepublishRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whitehall_republish_runs_total",
				Help: "Total number of document republishing runs",
			},
			[]string{"outcome"},
		),
		RepublishDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "whitehall_republish_duration_seconds",
				Help:    "Duration of document republishing runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		DraftSkipsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "whitehall_draft_skips_total",
				Help: "Drafts not pushed because they failed validation",
			},
		),
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whitehall_publishing_api_requests_total",
				Help: "Total number of Publishing API requests",
			},
			[]string{"operation", "status"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "whitehall_publishing_api_request_duration_seconds",
				Help:    "Duration of Publishing API requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		QueueJobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whitehall_queue_jobs_total",
				Help: "Republish jobs handled by the worker, by disposition",
			},
			[]string{"disposition"},
		),
		RepublishingEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whitehall_republishing_events_total",
				Help: "Republishing events recorded through the admin API",
			},
			[]string{"bulk"},
		),
	}
}

// RecordRepublish records the outcome of a republishing run
func (m *Metrics) RecordRepublish(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RepublishRunsTotal.WithLabelValues(outcome).Inc()
	m.RepublishDuration.Observe(duration.Seconds())
}

// RecordDraftSkip counts a draft withheld because it failed validation
func (m *Metrics) RecordDraftSkip() {
	if m == nil {
		return
	}
	m.DraftSkipsTotal.Inc()
}

// RecordAPIRequest records a Publishing API request with its status
func (m *Metrics) RecordAPIRequest(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.APIRequestsTotal.WithLabelValues(operation, status).Inc()
	m.APIRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordJob records how the queue worker disposed of a job
func (m *Metrics) RecordJob(disposition string) {
	if m == nil {
		return
	}
	m.QueueJobsTotal.WithLabelValues(disposition).Inc()
}

// RecordEvent counts a recorded republishing event
func (m *Metrics) RecordEvent(bulk bool) {
	if m == nil {
		return
	}
	label := "false"
	if bulk {
		label = "true"
	}
	m.RepublishingEvents.WithLabelValues(label).Inc()
}
