// Package metrics exposes Prometheus metrics for calculations, rejected
// input and HTTP traffic.
package metrics

import (
	"net/http"

	"dogdiet/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dogdiet"

// Metrics owns a private registry so tests and multiple servers do not
// collide on the global one.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calculations_total",
				Help:      "Count of completed diet calculations by activity level.",
			},
			[]string{"activity"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "input_rejections_total",
				Help:      "Count of rejected inputs by field.",
			},
			[]string{"field"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by handler, method and status code.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"handler", "method", "code"},
		),
	}
	m.registry.MustRegister(
		m.calculations,
		m.rejections,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCalculation counts a completed calculation.
func (m *Metrics) ObserveCalculation(level domain.ActivityLevel) {
	m.calculations.WithLabelValues(level.String()).Inc()
}

// ObserveRejection counts a rejected input value.
func (m *Metrics) ObserveRejection(field string) {
	m.rejections.WithLabelValues(field).Inc()
}

// InstrumentHandler records request durations for h under name.
func (m *Metrics) InstrumentHandler(name string, h http.Handler) http.Handler {
	obs := m.httpDuration.MustCurryWith(prometheus.Labels{"handler": name})
	return promhttp.InstrumentHandlerDuration(obs, h)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
