package core

import (
	"context"
	"net/http"
	"time"
)

// withTimeout bounds the request context. Callback deliveries run detached
// from it and are not affected.
func withTimeout(next http.Handler, d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
