package httpx

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Router is what the application mounts endpoints on. NewChi is the default.
type Router interface {
	Use(mw ...func(http.Handler) http.Handler)
	// Handle accepts verbs in any case.
	Handle(method, path string, h http.Handler)
	// Fallback answers unknown paths with notFound and known paths with an
	// unregistered verb with notAllowed.
	Fallback(notFound, notAllowed http.Handler)
	Mux() http.Handler
}

type chiRouter struct{ mux *chi.Mux }

func NewChi() Router { return &chiRouter{mux: chi.NewRouter()} }

func (c *chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.mux.Use(mw...) }

func (c *chiRouter) Handle(method, path string, h http.Handler) {
	c.mux.Method(strings.ToUpper(NormalizeMethod(method)), path, h)
}

func (c *chiRouter) Fallback(notFound, notAllowed http.Handler) {
	if notFound != nil {
		c.mux.NotFound(notFound.ServeHTTP)
	}
	if notAllowed != nil {
		c.mux.MethodNotAllowed(notAllowed.ServeHTTP)
	}
}

func (c *chiRouter) Mux() http.Handler { return c.mux }
