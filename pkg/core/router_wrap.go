package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/joeydtaylor/asymmetric/pkg/callback"
	"github.com/joeydtaylor/asymmetric/pkg/codec"
	"github.com/joeydtaylor/asymmetric/pkg/signature"
	"go.uber.org/zap"
)

// Request is the part of an inbound request a Handler reads.
type Request interface {
	Method() string
	Header() http.Header
	// JSON is the decoded body; an empty map when the body is absent or is
	// not a JSON object.
	JSON() map[string]any
}

// Handler produces a JSON-serializable payload and the response status.
type Handler func(ctx context.Context, req Request) (any, int)

type httpRequest struct {
	r    *http.Request
	once sync.Once
	body map[string]any
}

// NewRequest wraps r. The body is read on the first JSON call.
func NewRequest(r *http.Request) Request { return &httpRequest{r: r} }

func (h *httpRequest) Method() string      { return h.r.Method }
func (h *httpRequest) Header() http.Header { return h.r.Header }

func (h *httpRequest) JSON() map[string]any {
	h.once.Do(func() { h.body = codec.DecodeObject(h.r.Body) })
	return h.body
}

// Adapt serves h over net/http, writing its payload as JSON.
func Adapt(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, status := h(r.Context(), NewRequest(r))
		writeJSON(w, payload, status)
	})
}

func (a *App) invoke(route string, f *signature.Function, cb callback.Config, code int) Handler {
	return func(ctx context.Context, req Request) (any, int) {
		body := req.JSON()
		log := a.Logger()
		log.Info(fmt.Sprintf("%s request to '%s' endpoint ('%s' function)", strings.ToUpper(req.Method()), route, f.Name))
		log.Debug("request body", zap.String("route", route), zap.Any("body", body))

		params := f.Filter(body)
		if cb.Enabled {
			return a.callbacks().Dispatch(ctx, cb.Finders, req.Header(), func(ctx context.Context) (any, error) {
				return f.Call(ctx, params)
			})
		}

		out, err := f.Call(ctx, params)
		if err != nil {
			log.Warn("function call failed", zap.String("route", route), zap.String("function", f.Name), zap.Error(err))
			return errorPayload(err)
		}
		return out, statusIf(code, http.StatusOK)
	}
}
