package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "household_ledger"

// Recorder owns the service's Prometheus registry and collectors.
// Safe for concurrent use.
type Recorder struct {
	registry     *prometheus.Registry
	transitions  *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a Recorder backed by its own registry, with Go runtime and process collectors attached.
func New() *Recorder {
	registry := prometheus.NewRegistry()
	r := &Recorder{
		registry: registry,
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_transitions_total",
				Help:      "Lifecycle state transitions applied, by entity.",
			},
			[]string{"entity", "from", "to"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served, by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.transitions,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// Transition counts one applied lifecycle transition.
func (r *Recorder) Transition(entity, from, to string) {
	r.transitions.WithLabelValues(entity, from, to).Inc()
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
