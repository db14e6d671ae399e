package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SimulationCalls counts simulations by product and outcome.
	SimulationCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulations_total",
			Help: "Number of savings simulations",
		},
		[]string{"product", "status"},
	)

	SimulationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "simulation_duration_seconds",
			Help:    "Time spent running a savings simulation",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		},
		[]string{"product"},
	)

	// AdvisorReplies counts advisor turns by mode (onboarding, llm, fallback).
	AdvisorReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_replies_total",
			Help: "Advisor replies by mode and outcome",
		},
		[]string{"mode", "status"},
	)

	// APICalls counts HTTP requests by route and status code.
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_calls_total",
			Help: "HTTP API calls",
		},
		[]string{"path", "code"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)
