package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"qc-backend/internal/metrics"
)

// PanicRecovery converts a handler panic into a 500 response so a single
// bad request cannot take the server down.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[HTTP] panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				metrics.PanicsRecovered.Inc()

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error": "Internal server error"}`))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
