package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Event Log
	EventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_recorded_total",
			Help: "Interaction events appended to the event log",
		},
		[]string{"activity_type"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_failed_total",
			Help: "Interaction events discarded or not persisted",
		},
		[]string{"reason"}, // "invalid", "storage"
	)

	// Ingestion queue
	TasksExecuted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_tasks_executed_total",
			Help: "Background ingestion tasks executed",
		},
	)

	TasksDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_tasks_dropped_total",
			Help: "Background ingestion tasks dropped because the queue was full or closed",
		},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analytics_queue_depth",
			Help: "Tasks currently waiting in the ingestion queue",
		},
	)

	// Preferences
	PreferenceUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_updates_total",
			Help: "Preference profile updates by outcome",
		},
		[]string{"outcome"}, // "ok", "error"
	)

	// Recommendations
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_generation_duration_seconds",
			Help:    "Time spent regenerating a recommendation set",
			Buckets: prometheus.DefBuckets,
		},
	)

	StrategyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_strategy_failures_total",
			Help: "Candidate generator failures by strategy",
		},
		[]string{"strategy"},
	)

	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Recommendation items returned to callers",
		},
	)

	RecommendationsClicked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_clicked_total",
			Help: "Recommendation items marked clicked",
		},
	)

	RecommendationSetsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_sets_expired_total",
			Help: "Recommendation sets removed by the expiry sweeper",
		},
	)

	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
