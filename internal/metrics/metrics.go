// Package metrics provides Prometheus metrics for the pizza restaurants API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APILatencyBuckets are request latency buckets in seconds sized for
// single-query handlers, finer than prometheus.DefBuckets below 100ms.
var APILatencyBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Manager owns the collectors of the service and the registry they live in.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	restaurantPizzasCreated prometheus.Counter
	restaurantsDeleted      prometheus.Counter
	validationFailures      *prometheus.CounterVec
	cacheLookups            *prometheus.CounterVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
// An empty slice keeps the current buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithGoCollectors registers the Go runtime and process collectors.
func WithGoCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewManager creates a metrics manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pizza_api",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route, method and status code.",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method", "status"})

	m.restaurantPizzasCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "restaurant_pizzas_created_total",
		Help:      "Number of restaurant pizzas created.",
	})

	m.restaurantsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "restaurants_deleted_total",
		Help:      "Number of restaurants deleted together with their restaurant pizzas.",
	})

	m.validationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "validation_failures_total",
		Help:      "Rejected restaurant pizza creations by failing field.",
	}, []string{"field"})

	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Listing cache lookups by key and result.",
	}, []string{"key", "result"})

	m.registry.MustRegister(
		m.httpRequests,
		m.httpRequestDuration,
		m.restaurantPizzasCreated,
		m.restaurantsDeleted,
		m.validationFailures,
		m.cacheLookups,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest counts one request and observes its latency in seconds.
func (m *Manager) RecordHTTPRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, status).Observe(seconds)
}

func (m *Manager) RecordRestaurantPizzaCreated() {
	if m == nil {
		return
	}
	m.restaurantPizzasCreated.Inc()
}

func (m *Manager) RecordRestaurantDeleted() {
	if m == nil {
		return
	}
	m.restaurantsDeleted.Inc()
}

// RecordValidationFailure counts a rejected creation; field is "request" for binding failures.
func (m *Manager) RecordValidationFailure(field string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(field).Inc()
}

// RecordCacheLookup counts a cache lookup as hit, miss or error.
func (m *Manager) RecordCacheLookup(key, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(key, result).Inc()
}
