package logger

import (
	"net/http"
	"strings"
	"sync"
)

// bodyAllowlist holds the routes whose request bodies may be logged.
type bodyAllowlist struct {
	mu    sync.RWMutex
	paths map[string]struct{}
}

// AddBodyLogPaths lets callers extend the allowlist at runtime.
func (m *Middleware) AddBodyLogPaths(paths ...string) {
	m.bodies.mu.Lock()
	if m.bodies.paths == nil {
		m.bodies.paths = map[string]struct{}{}
	}
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			m.bodies.paths[p] = struct{}{}
		}
	}
	m.bodies.mu.Unlock()
}

// Only log small JSON request bodies on allowlisted routes.
func (m *Middleware) shouldLogBody(r *http.Request, body []byte) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	if len(body) == 0 || len(body) > 1<<16 { // 64 KiB cap
		return false
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		return false
	}
	m.bodies.mu.RLock()
	_, ok := m.bodies.paths[r.URL.Path]
	m.bodies.mu.RUnlock()
	return ok
}
