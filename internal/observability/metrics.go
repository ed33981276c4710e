package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idiomhub_http_requests_total",
		Help: "Total number of HTTP requests handled",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "idiomhub_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// VotesTotal counts ledger mutations. target is idiom, comment or reply;
	// action is added, removed or switched.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idiomhub_votes_total",
		Help: "Total number of vote and reaction mutations",
	}, []string{"target", "action"})

	// CacheRequestsTotal counts cache lookups by key family and result (hit, miss, error).
	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idiomhub_cache_requests_total",
		Help: "Total number of cache lookups",
	}, []string{"key", "result"})

	// AIRequestsTotal counts idiom generation calls by outcome.
	AIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idiomhub_ai_requests_total",
		Help: "Total number of AI generation requests",
	}, []string{"outcome"})
)
