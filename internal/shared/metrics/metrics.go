// Package metrics exposes Prometheus metrics for the analysis pipeline.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	providerAttempts = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume",
		Subsystem: "pipeline",
		Name:      "provider_attempts_total",
		Help:      "Provider call attempts by provider and outcome.",
	}, []string{"provider", "outcome"})

	analysesTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume",
		Subsystem: "pipeline",
		Name:      "analyses_total",
		Help:      "Completed analyses by status.",
	}, []string{"status"})

	analysisDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: "resume",
		Subsystem: "pipeline",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end analysis duration in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	extractionErrors = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume",
		Subsystem: "pipeline",
		Name:      "extraction_errors_total",
		Help:      "Document extraction failures by kind.",
	}, []string{"kind"})
)

// ObserveProviderAttempt records one provider call attempt.
func ObserveProviderAttempt(provider, outcome string) {
	providerAttempts.WithLabelValues(provider, outcome).Inc()
}

// ObserveAnalysis records a finished analysis with its status and duration.
func ObserveAnalysis(status string, seconds float64) {
	analysesTotal.WithLabelValues(status).Inc()
	if seconds >= 0 {
		analysisDuration.Observe(seconds)
	}
}

// ObserveExtractionError records a document extraction failure.
func ObserveExtractionError(kind string) {
	extractionErrors.WithLabelValues(kind).Inc()
}

// Handler serves the metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
