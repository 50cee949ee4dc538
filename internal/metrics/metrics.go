// Package metrics counts what a run did. The registry is private to each
// Metrics value and can be dumped in the Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cazy"

// Metrics holds the collectors of one process
type Metrics struct {
	registry *prometheus.Registry

	DocumentsPreprocessed prometheus.Counter
	ArticlesScored        prometheus.Counter
	TranslationMisses     *prometheus.CounterVec // by target type
	RetrievalGaps         *prometheus.CounterVec // by source
	RetrievalLatency      *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		DocumentsPreprocessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_preprocessed_total",
			Help:      "Documents run through the preprocessing pipeline.",
		}),
		ArticlesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_scored_total",
			Help:      "Articles that received a confidence score.",
		}),
		TranslationMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_misses_total",
			Help:      "Identifier translations that found no counterpart.",
		}, []string{"target"}),
		RetrievalGaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_gaps_total",
			Help:      "Identifiers whose text could not be retrieved.",
		}, []string{"source"}),
		RetrievalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_seconds",
			Help:      "Latency of one external retrieval call.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.DocumentsPreprocessed,
		m.ArticlesScored,
		m.TranslationMisses,
		m.RetrievalGaps,
		m.RetrievalLatency,
	)
	return m
}

// ObserveRetrieval records the duration of one call to source.
func (m *Metrics) ObserveRetrieval(source string, d time.Duration) {
	m.RetrievalLatency.WithLabelValues(source).Observe(d.Seconds())
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteFile dumps every metric to path in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
