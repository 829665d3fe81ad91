// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spendpal_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spendpal_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// RollforwardMaterialized counts expenses materialized from recurring templates.
	RollforwardMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spendpal_rollforward_materialized_total",
		Help: "Total recurring expenses materialized by the rollforward check.",
	})

	// RollforwardFailures counts recurring expenses whose materialization failed.
	RollforwardFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spendpal_rollforward_failures_total",
		Help: "Total recurring expense materializations that failed.",
	})

	// AnalysisReportsGenerated counts AI analysis reports successfully stored.
	AnalysisReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spendpal_analysis_reports_generated_total",
		Help: "Total AI analysis reports generated.",
	})
)
