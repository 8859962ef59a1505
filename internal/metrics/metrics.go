package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alexandread_http_requests_total",
			Help: "HTTP requests by method, route template and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alexandread_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route template",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RecommendationSourceFailures - мягкие отказы источников кандидатов (в т.ч. открытый breaker).
	RecommendationSourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alexandread_recommendation_source_failures_total",
			Help: "Candidate source failures absorbed by the recommendation aggregator",
		},
		[]string{"source"},
	)

	// SubscriptionRenewals - продления по триггеру: read, auto_renew, sweep.
	SubscriptionRenewals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alexandread_subscription_renewals_total",
			Help: "Automatic subscription renewals by trigger",
		},
		[]string{"trigger"},
	)

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alexandread_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter",
	})
)
