package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/asymmetric/pkg/middleware/auth"
)

// Collect records one sample per request once the handler has answered.
// Paths registered with AddMetricsSkipPaths are not recorded.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSkipPath(r) {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
			inFlight.Inc()
			start := time.Now()
			defer func() {
				inFlight.Dec()
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				uri := normalizePath(r)

				requestsFromRole.WithLabelValues(ca.GetUser(r.Context()).Role.Name).Inc()
				requestsToURI.WithLabelValues(strconv.Itoa(status), uri, r.Method).Inc()
				if status == http.StatusAccepted {
					delegatedRequests.WithLabelValues(uri).Inc()
				}
				responseTime.WithLabelValues(r.Method, uri).Observe(time.Since(start).Seconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
