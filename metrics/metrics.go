// Package metrics exposes Prometheus instrumentation for the relay and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for a single process. Collectors register
// against the supplied registry so tests can use isolated registries.
type Metrics struct {
	registry *prometheus.Registry

	relayCalls    *prometheus.CounterVec
	relayDuration *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	signalsStored prometheus.Counter
	articlesBuilt prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.relayCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_calls_total",
		Help: "Relay attempts by provider, model, and outcome.",
	}, []string{"provider", "model", "outcome"})

	m.relayDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_call_duration_seconds",
		Help:    "Duration of individual relay attempts.",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"provider", "outcome"})

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method, and status code.",
	}, []string{"route", "method", "code"})

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request handling duration by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	m.signalsStored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signals_stored_total",
		Help: "Signals persisted to the day store.",
	})

	m.articlesBuilt = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "articles_built_total",
		Help: "Completed article generation runs.",
	})

	m.registry.MustRegister(
		m.relayCalls,
		m.relayDuration,
		m.httpRequests,
		m.httpDuration,
		m.signalsStored,
		m.articlesBuilt,
	)
	return m
}

// ObserveRelayCall records one relay attempt outcome.
func (m *Metrics) ObserveRelayCall(provider, modelName, outcome string, duration time.Duration) {
	m.relayCalls.WithLabelValues(provider, modelName, outcome).Inc()
	m.relayDuration.WithLabelValues(provider, outcome).Observe(duration.Seconds())
}

// ObserveHTTPRequest records one handled HTTP request.
func (m *Metrics) ObserveHTTPRequest(route, method string, code int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// SignalsStored adds to the persisted-signal counter.
func (m *Metrics) SignalsStored(n int) {
	m.signalsStored.Add(float64(n))
}

// ArticleBuilt increments the completed-article counter.
func (m *Metrics) ArticleBuilt() {
	m.articlesBuilt.Inc()
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
