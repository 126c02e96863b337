// internal/middleware/logging.go
package middleware

import (
	"log"
	"net/http"
	"time"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs every request with method, path, status and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		level := "INFO"
		if rec.status >= http.StatusInternalServerError {
			level = "ERROR"
		}
		log.Printf("[%s] %s %s completed in %v (status: %d)",
			level, r.Method, r.URL.Path, time.Since(start), rec.status)
	})
}
