package http

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"smartsaver/metrics"
)

func RateLimitMiddleware(
	limiter *RateLimiter,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		client := clientIP(r)

		if !limiter.Allow(client) {
			metrics.RateLimited.Inc()
			slog.Warn("rate limit exceeded", "client", client, "path", r.URL.Path)

			retry := math.Ceil(limiter.RetryAfter(client).Seconds())
			w.Header().Set("Retry-After", strconv.Itoa(int(max(retry, 1))))
			WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
