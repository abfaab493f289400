// Package observability exposes the alert pipeline's Prometheus metrics.
// Pipeline failures are invisible to end users, so counters are the primary
// signal that deliveries are failing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts orchestrator runs by outcome ("ok", "error").
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_pipeline_runs_total",
			Help: "Total number of alert pipeline runs",
		},
		[]string{"outcome"},
	)

	// UsersProcessed counts users the pipeline considered.
	UsersProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_pipeline_users_processed_total",
			Help: "Total number of users processed by the alert pipeline",
		},
	)

	// AlertsDelivered counts deliveries by channel
	// (in_app, email_instant, email_daily).
	AlertsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_alerts_delivered_total",
			Help: "Total number of alerts delivered per channel",
		},
		[]string{"channel"},
	)

	// EmailSendFailures counts email sends that exhausted their retries.
	EmailSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_email_send_failures_total",
			Help: "Total number of email sends that failed after retries",
		},
	)

	// UserProcessingFailures counts users skipped because their processing
	// errored; the run itself continues.
	UserProcessingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_pipeline_user_failures_total",
			Help: "Total number of users whose pipeline processing failed",
		},
	)

	// PipelineDuration observes wall-clock run duration.
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_pipeline_run_duration_seconds",
			Help:    "Duration of alert pipeline runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)
