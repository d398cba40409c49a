// Package endpoints keeps the (route, method) registry of exposed functions.
package endpoints

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joeydtaylor/asymmetric/pkg/callback"
	"github.com/joeydtaylor/asymmetric/pkg/signature"
	"github.com/joeydtaylor/asymmetric/pkg/transport/httpx"
)

// DefaultDocstring describes endpoints registered without a description.
const DefaultDocstring = "No description provided."

// Endpoint is one registered (route, method) pair.
type Endpoint struct {
	Route  string
	Method string // lower-case
	// Function is nil for built-in routes.
	Function     *signature.Function
	Handler      http.Handler
	ResponseCode int
	Callback     callback.Config
	Docstring    string
	Guard        Guard
	// Timeout bounds the request context of direct calls; 0 means none.
	Timeout time.Duration
}

// Guard restricts who may call an endpoint. The zero value is open.
type Guard struct {
	RequireAuth bool
	Roles       []string
	Users       []string
}

// Open reports whether the guard admits anonymous callers.
func (g Guard) Open() bool {
	return !g.RequireAuth && len(g.Roles) == 0 && len(g.Users) == 0
}

// StatusCode is the status a successful call answers with.
func (e *Endpoint) StatusCode() int {
	if e.Callback.Enabled {
		return http.StatusAccepted
	}
	if e.ResponseCode == 0 {
		return http.StatusOK
	}
	return e.ResponseCode
}

// Spec holds the per-registration fields shared by every method of a route.
type Spec struct {
	Function     *signature.Function
	Handler      http.Handler
	ResponseCode int
	Callback     callback.Config
	Docstring    string
	Guard        Guard
	Timeout      time.Duration
}

// Registry maps route → method → endpoint. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]map[string]*Endpoint
}

func New() *Registry {
	return &Registry{routes: map[string]map[string]*Endpoint{}}
}

// Add registers route for every method. Either every pair is inserted or,
// on error, none is.
func (r *Registry) Add(route string, methods []string, s Spec) error {
	norm, err := normalizeMethods(methods)
	if err != nil {
		return err
	}
	if s.ResponseCode == 0 {
		s.ResponseCode = http.StatusOK
	}
	if strings.TrimSpace(s.Docstring) == "" {
		s.Docstring = DefaultDocstring
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byMethod := r.routes[route]
	for _, m := range norm {
		if _, dup := byMethod[m]; dup {
			return &DuplicatedEndpointError{Route: route, Method: m}
		}
	}
	if byMethod == nil {
		byMethod = map[string]*Endpoint{}
		r.routes[route] = byMethod
	}
	for _, m := range norm {
		byMethod[m] = &Endpoint{
			Route:        route,
			Method:       m,
			Function:     s.Function,
			Handler:      s.Handler,
			ResponseCode: s.ResponseCode,
			Callback:     s.Callback,
			Docstring:    s.Docstring,
			Guard:        s.Guard,
			Timeout:      s.Timeout,
		}
	}
	return nil
}

// Get looks up an endpoint; method matches case-insensitively.
func (r *Registry) Get(route, method string) (*Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.routes[route][httpx.NormalizeMethod(method)]
	return ep, ok
}

// Routes returns the registered routes, sorted.
func (r *Registry) Routes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.routes))
	for route := range r.routes {
		out = append(out, route)
	}
	sort.Strings(out)
	return out
}

// Endpoints returns every endpoint ordered by route, then method.
func (r *Registry) Endpoints() []*Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Endpoint, 0, len(r.routes))
	for _, byMethod := range r.routes {
		for _, ep := range byMethod {
			out = append(out, ep)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Route != out[j].Route {
			return out[i].Route < out[j].Route
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Each calls fn for every endpoint in Endpoints order, stopping early when
// fn returns false.
func (r *Registry) Each(fn func(*Endpoint) bool) {
	for _, ep := range r.Endpoints() {
		if !fn(ep) {
			return
		}
	}
}

// Len is the number of registered (route, method) pairs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, byMethod := range r.routes {
		n += len(byMethod)
	}
	return n
}

func normalizeMethods(methods []string) ([]string, error) {
	if len(methods) == 0 {
		return nil, &InvalidMethodError{Method: ""}
	}
	seen := make(map[string]struct{}, len(methods))
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		n := httpx.NormalizeMethod(m)
		if !httpx.IsMethod(n) {
			return nil, &InvalidMethodError{Method: m}
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// DuplicatedEndpointError reports a (route, method) pair registered twice.
type DuplicatedEndpointError struct {
	Route  string
	Method string
}

func (e *DuplicatedEndpointError) Error() string {
	return fmt.Sprintf("Endpoint '%s' with HTTP method '%s' was defined twice.", e.Route, strings.ToUpper(e.Method))
}

// InvalidMethodError reports a verb outside httpx.Methods.
type InvalidMethodError struct {
	Method string
}

func (e *InvalidMethodError) Error() string {
	if e.Method == "" {
		return "at least one HTTP method is required"
	}
	return fmt.Sprintf("HTTP method '%s' is not supported", e.Method)
}
