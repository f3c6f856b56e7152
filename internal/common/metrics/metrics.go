// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	AssessmentsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_assessments_scored_total",
			Help: "Assessments scored, by survey variant",
		},
		[]string{"variant"},
	)

	TopStreamSelected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_top_recommendation_total",
			Help: "How often each stream ranked first",
		},
		[]string{"variant", "stream"},
	)

	AnswersSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_answers_skipped_total",
			Help: "Answers left out of scoring because they were not a listed option",
		},
		[]string{"section"},
	)

	WeightedScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stream_weighted_score",
			Help:    "Distribution of composite weighted scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"variant"},
	)

	ReportsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_reports_rendered_total",
			Help: "Reports rendered, by format",
		},
		[]string{"format"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_notifications_total",
			Help: "Report notifications by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Calls through a circuit breaker by result",
		},
		[]string{"name", "result"},
	)
)
