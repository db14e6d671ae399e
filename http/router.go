package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers every route. Simulation and advisor routes share the
// rate limiter; all routes are logged.
func NewRouter(savings *SavingsHandler, advisor *AdvisorHandler, limiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, LoggingMiddleware(pattern, h))
	}
	limited := func(pattern string, h http.HandlerFunc) {
		handle(pattern, RateLimitMiddleware(limiter, h))
	}

	handle("/truth", http.HandlerFunc(savings.Truth))
	limited("/simulate/flex", savings.SimulateFlex)
	limited("/simulate/locked", savings.SimulateLocked)
	limited("/simulate/main", savings.SimulateMain)
	limited("/advisor/onboarding", advisor.Onboarding)
	limited("/advisor/chat", advisor.Chat)

	handle("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
