package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/legalassist/logger"
)

// RequestLogger writes one access line per request. Probe and scrape
// traffic is skipped. 5xx log at error, 4xx at warn, the rest at debug.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health", "/ready", "/metrics":
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)

			status := rec.Status()
			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", rec.bytes,
				logger.FieldDuration, time.Since(start).Milliseconds(),
				"client", r.RemoteAddr,
				"request_id", r.Header.Get(RequestIDHeader),
			)
			emit := log.Debug
			if status >= http.StatusInternalServerError {
				emit = log.Error
			} else if status >= http.StatusBadRequest {
				emit = log.Warn
			}
			emit("Request completed", fields)
		})
	}
}
