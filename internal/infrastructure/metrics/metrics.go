package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeFailure  = "failure"
)

type Registry struct {
	reg              *prometheus.Registry
	CacheLookups     *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cartribe_cache_lookups_total",
		Help: "Listing cache reads by result.",
	}, []string{"result"})
	upstreamRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cartribe_upstream_requests_total",
		Help: "MarketCheck calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cartribe_upstream_request_duration_seconds",
		Help:    "MarketCheck call latency including retries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	r.MustRegister(cacheLookups, upstreamRequests, upstreamLatency)
	return &Registry{
		reg:              r,
		CacheLookups:     cacheLookups,
		UpstreamRequests: upstreamRequests,
		UpstreamLatency:  upstreamLatency,
	}
}

// ObserveCache counts a cache read
func (r *Registry) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveUpstream counts one MarketCheck call and records its latency
func (r *Registry) ObserveUpstream(operation, outcome string, elapsed time.Duration) {
	r.UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	r.UpstreamLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// MustRegister adds extra collectors, such as a cache size gauge
func (r *Registry) MustRegister(cs ...prometheus.Collector) { r.reg.MustRegister(cs...) }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
