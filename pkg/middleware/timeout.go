package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds the request context. The response is not buffered, and
// an upstream query still running at the deadline is cancelled.
func Timeout(timeout time.Duration) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
