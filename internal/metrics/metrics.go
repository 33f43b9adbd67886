// Package metrics exposes sync and HTTP counters on a private Prometheus
// registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "moviegrid"

// Metrics implements catalog.Recorder and records HTTP traffic.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups  *prometheus.CounterVec
	remoteFetches *prometheus.CounterVec
	inserted      prometheus.Counter
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Local store lookups by outcome (hit or miss).",
		}, []string{"result"}),
		remoteFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_fetches_total",
			Help:      "Upstream page fetches by outcome.",
		}, []string{"result"}),
		inserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movies_written_total",
			Help:      "Movies handed to the local store after a fetch, before dedup.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cacheLookups,
		m.remoteFetches,
		m.inserted,
		m.requests,
		m.duration,
	)
	return m
}

func (m *Metrics) CacheHit()  { m.cacheLookups.WithLabelValues("hit").Inc() }
func (m *Metrics) CacheMiss() { m.cacheLookups.WithLabelValues("miss").Inc() }

func (m *Metrics) FetchResult(err error) {
	if err != nil {
		m.remoteFetches.WithLabelValues("error").Inc()
		return
	}
	m.remoteFetches.WithLabelValues("ok").Inc()
}

func (m *Metrics) Inserted(n int) {
	if n > 0 {
		m.inserted.Add(float64(n))
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
