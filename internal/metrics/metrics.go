// Package metrics exposes prometheus collectors for practice activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "factflash"

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the global one. A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	attempts       *prometheus.CounterVec
	pointsAwarded  prometheus.Counter
	batchFallbacks prometheus.Counter
	batchSize      prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Recorded answer attempts by result.",
		}, []string{"result"}),
		pointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Points awarded for correct answers.",
		}),
		batchFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_fallbacks_total",
			Help:      "Batches served from catalog order because selection came back empty.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of facts returned per batch.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50},
		}),
	}

	m.registry.MustRegister(
		m.attempts,
		m.pointsAwarded,
		m.batchFallbacks,
		m.batchSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveAttempt(correct bool, awarded int) {
	if m == nil {
		return
	}
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.attempts.WithLabelValues(result).Inc()
	if awarded > 0 {
		m.pointsAwarded.Add(float64(awarded))
	}
}

func (m *Metrics) ObserveBatch(size int, fallback bool) {
	if m == nil {
		return
	}
	m.batchSize.Observe(float64(size))
	if fallback {
		m.batchFallbacks.Inc()
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
