package middleware

import "net/http"

// SecurityHeaders hardens the ops endpoints. The server only answers
// health probes and Prometheus scrapes, so responses are marked
// uncacheable and never rendered in a frame.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
