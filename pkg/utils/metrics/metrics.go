package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels of ScoresComputed
const (
	ResultClassified   = "classified"
	ResultUnclassified = "unclassified"
	ResultUnscored     = "unscored"
)

var (
	// ScoresComputed counts scores derived by the entry scorer, by view and result
	ScoresComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sirico_scores_computed_total",
		Help: "Total risk scores computed by view and classification result",
	}, []string{"view", "result"})

	// RollupsRecomputed counts objective rollup recomputations
	RollupsRecomputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sirico_rollups_recomputed_total",
		Help: "Total objective rollups recomputed",
	})

	// TemplateValidationFailures counts rejected template saves and updates
	TemplateValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sirico_template_validation_failures_total",
		Help: "Total template saves rejected by validation",
	})

	// HTTPRequests counts API requests by route pattern and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sirico_http_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"route", "status"})

	// HTTPDuration tracks API latency by route pattern
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sirico_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	}, []string{"route"})
)
