package server

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware caps the total time budget of every request on the
// router. Route chains configure their own, usually tighter, budget; this
// is the outer bound. Cancellation is cooperative: the handler must observe
// context.Done().
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
