package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/joeydtaylor/asymmetric/pkg/signature"
)

// CatalogEntry is a function a manifest route can expose by name.
type CatalogEntry struct {
	Function *signature.Function
	options  []RouteOption
}

// Catalog maps names used in manifest.toml to introspected functions.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]CatalogEntry
}

func NewCatalog() *Catalog { return &Catalog{entries: map[string]CatalogEntry{}} }

// Register introspects fn and stores it under name. Params, Defaults and
// Description options are honored here; route-level options given to
// Register apply to every manifest route using the entry, before the
// manifest's own settings.
func (c *Catalog) Register(name string, fn any, opts ...RouteOption) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("catalog: empty name")
	}
	cfg := newRouteConfig(opts)
	f, err := signature.Introspect(fn, cfg.names, cfg.defaults)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.entries[name]; dup {
		return fmt.Errorf("catalog: %q registered twice", name)
	}
	c.entries[name] = CatalogEntry{Function: f, options: append([]RouteOption(nil), opts...)}
	return nil
}

// MustRegister panics when Register fails.
func (c *Catalog) MustRegister(name string, fn any, opts ...RouteOption) {
	if err := c.Register(name, fn, opts...); err != nil {
		panic(err)
	}
}

// Lookup retrieves a cataloged function by name.
func (c *Catalog) Lookup(name string) (CatalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// Names lists the cataloged functions, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for n := range c.entries {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
