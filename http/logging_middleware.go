package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"smartsaver/metrics"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every request once it completes and counts it in
// metrics.APICalls. route is the registered pattern, not the raw path.
func LoggingMiddleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		metrics.APICalls.WithLabelValues(route, strconv.Itoa(rw.status)).Inc()
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"remote_addr", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}
