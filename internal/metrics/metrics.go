package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	UpstreamTotal       *prometheus.CounterVec
	FallbacksTotal      *prometheus.CounterVec
	CacheTotal          *prometheus.CounterVec
}

// New registers the metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		UpstreamTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Calls to upstream gateways by outcome",
		}, []string{"gateway", "outcome"}), // outcome: ok, error
		FallbacksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fallbacks_total",
			Help: "Placeholder values substituted for failed or empty upstream results",
		}, []string{"stage"}), // e.g. gallery, image_hint, article
		CacheTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nasa_cache_total",
			Help: "NASA response cache lookups",
		}, []string{"result"}), // hit, miss
	}
}

// Upstream counts one call to gateway.
func (m *Metrics) Upstream(gateway string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamTotal.WithLabelValues(gateway, outcome).Inc()
}

// Fallback counts one placeholder substitution at stage.
func (m *Metrics) Fallback(stage string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(stage).Inc()
}

// Cache counts a cache hit or miss.
func (m *Metrics) Cache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheTotal.WithLabelValues("hit").Inc()
		return
	}
	m.CacheTotal.WithLabelValues("miss").Inc()
}
