package core

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	hmetrics "github.com/joeydtaylor/asymmetric/pkg/middleware/metrics"
	httpx "github.com/joeydtaylor/asymmetric/pkg/transport/httpx"
	"go.uber.org/zap"
)

// BuildRouter mounts every registered endpoint, the documentation routes and
// /metrics behind the request id, recovery, heartbeat, auth, access log and
// metrics middleware.
func BuildRouter(app *App, d BuildDeps) (http.Handler, error) {
	if err := app.registerBuiltins(); err != nil {
		return nil, err
	}

	r := d.Router
	if r == nil {
		r = httpx.NewChi()
	}
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
	}
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(d.Auth))
	}
	r.Use(hmetrics.Collect(d.Auth))
	r.Fallback(statusHandler(http.StatusNotFound), statusHandler(http.StatusMethodNotAllowed))

	if d.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", d.Metrics)
	}

	log := app.Logger()
	for _, ep := range app.Registry().Endpoints() {
		h := ep.Handler
		if ep.Timeout > 0 {
			h = withTimeout(h, ep.Timeout)
		}
		h = withGuard(h, d.Auth, ep.Guard)
		r.Handle(ep.Method, ep.Route, h)
		log.Debug("endpoint mounted", zap.String("method", ep.Method), zap.String("route", ep.Route))
	}
	return r.Mux(), nil
}

// Handler is BuildRouter bound to a.
func (a *App) Handler(d BuildDeps) (http.Handler, error) { return BuildRouter(a, d) }
