// Package metrics exposes process-wide counters for the scoring
// pipeline. The library only increments; callers that want scraping
// mount Handler on their own mux.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	extractionTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "gsmreward",
		Name:      "extraction_total",
		Help:      "Answer extraction attempts by outcome.",
	}, []string{"outcome"})

	// ExtractionMatched counts extractions that produced an answer token.
	ExtractionMatched = extractionTotal.WithLabelValues("matched")

	// ExtractionNoMatch counts extractions that found no answer.
	ExtractionNoMatch = extractionTotal.WithLabelValues("no_match")

	// ExtractionPatternFailures counts regex-engine faults degraded to
	// no match.
	ExtractionPatternFailures = extractionTotal.WithLabelValues("pattern_failure")

	// BatchDegraded counts batches degraded to a uniform no-answer reward.
	BatchDegraded = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "gsmreward",
		Name:      "batch_degraded_total",
		Help:      "Batches degraded to a uniform no-answer reward.",
	})
)

// Handler serves the package registry in Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
