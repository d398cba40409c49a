package core

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joeydtaylor/asymmetric/pkg/callback"
	"github.com/joeydtaylor/asymmetric/pkg/endpoints"
	"github.com/joeydtaylor/asymmetric/pkg/signature"
	"go.uber.org/zap"
)

// Decorator exposes fn on the route it was created for and returns the
// request handler built around it.
type Decorator func(fn any) (Handler, error)

type routeConfig struct {
	methods      []string
	responseCode int
	callback     any
	names        []string
	defaults     []any
	description  string
	guard        endpoints.Guard
	timeout      time.Duration
}

// RouteOption configures one registration.
type RouteOption func(*routeConfig)

// Methods sets the HTTP verbs. Defaults to post.
func Methods(methods ...string) RouteOption {
	return func(c *routeConfig) { c.methods = append([]string(nil), methods...) }
}

// ResponseCode sets the status of direct calls. Defaults to 200; callback
// endpoints always answer 202.
func ResponseCode(code int) RouteOption { return func(c *routeConfig) { c.responseCode = code } }

// Callback accepts false, true, callback.Options or a map with
// url_header_name, method_header_name and custom_key_header_name.
func Callback(spec any) RouteOption { return func(c *routeConfig) { c.callback = spec } }

// Params names the function's parameters in order, excluding a leading
// context.Context and a trailing signature.Extra.
func Params(names ...string) RouteOption {
	return func(c *routeConfig) { c.names = append([]string(nil), names...) }
}

// Defaults gives values to the trailing parameters.
func Defaults(values ...any) RouteOption {
	return func(c *routeConfig) { c.defaults = append([]any(nil), values...) }
}

func Description(desc string) RouteOption { return func(c *routeConfig) { c.description = desc } }

// RequireAuth rejects callers without a verified bearer token.
func RequireAuth() RouteOption { return func(c *routeConfig) { c.guard.RequireAuth = true } }

// Roles admits only callers holding one of roles.
func Roles(roles ...string) RouteOption {
	return func(c *routeConfig) { c.guard.Roles = append(c.guard.Roles, roles...) }
}

// Users admits only the named callers.
func Users(users ...string) RouteOption {
	return func(c *routeConfig) { c.guard.Users = append(c.guard.Users, users...) }
}

// Timeout bounds the request context passed to direct calls.
func Timeout(d time.Duration) RouteOption { return func(c *routeConfig) { c.timeout = d } }

func newRouteConfig(opts []RouteOption) routeConfig {
	c := routeConfig{methods: []string{"post"}, responseCode: http.StatusOK, callback: false}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Router returns a decorator registering functions on route.
func (a *App) Router(route string, opts ...RouteOption) Decorator {
	cfg := newRouteConfig(opts)
	return func(fn any) (Handler, error) {
		f, err := signature.Introspect(fn, cfg.names, cfg.defaults)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", route, err)
		}
		return a.register(route, f, cfg)
	}
}

// Handle registers fn on route.
func (a *App) Handle(route string, fn any, opts ...RouteOption) (Handler, error) {
	return a.Router(route, opts...)(fn)
}

// MustHandle is like Handle but panics on a configuration error.
func (a *App) MustHandle(route string, fn any, opts ...RouteOption) Handler {
	h, err := a.Handle(route, fn, opts...)
	if err != nil {
		panic(err)
	}
	return h
}

func (a *App) register(route string, f *signature.Function, cfg routeConfig) (Handler, error) {
	cb, err := callback.Parse(cfg.callback)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", route, err)
	}
	if cfg.responseCode < 100 || cfg.responseCode > 599 {
		return nil, fmt.Errorf("route %s: response code %d invalid", route, cfg.responseCode)
	}

	h := a.invoke(route, f, cb, cfg.responseCode)
	err = a.registry.Add(route, cfg.methods, endpoints.Spec{
		Function:     f,
		Handler:      Adapt(h),
		ResponseCode: cfg.responseCode,
		Callback:     cb,
		Docstring:    cfg.description,
		Guard:        cfg.guard,
		Timeout:      cfg.timeout,
	})
	if err != nil {
		a.Logger().Error("endpoint registration failed", zap.String("route", route), zap.Error(err))
		return nil, err
	}
	return h, nil
}
