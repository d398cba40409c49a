package core

import (
	"fmt"
	"os"
	"time"

	"github.com/joeydtaylor/asymmetric/pkg/manifest"
)

// LoadConfig reads and validates a manifest file.
func LoadConfig(path string) (manifest.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return manifest.Config{}, err
	}
	cfg, err := manifest.Parse(b)
	if err != nil {
		return manifest.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load applies the [app] section and exposes every [[route]] against the
// catalog. Manifest settings override the options given at Catalog.Register.
func (a *App) Load(cfg manifest.Config) error {
	opts := []Option{
		WithTitle(cfg.App.Title),
		WithVersion(cfg.App.Version),
	}
	if cfg.App.Description != "" {
		opts = append(opts, WithDescription(cfg.App.Description))
	}
	if !cfg.App.DocsEnabled() {
		opts = append(opts, WithoutDocs())
	}
	a.Configure(opts...)

	for i, rt := range cfg.Routes {
		entry, ok := a.catalog.Lookup(rt.Handler)
		if !ok {
			return fmt.Errorf("route[%d] %s: handler %q is not in the catalog", i, rt.Path, rt.Handler)
		}
		if _, err := a.register(rt.Path, entry.Function, routeFromManifest(entry, rt)); err != nil {
			return fmt.Errorf("route[%d]: %w", i, err)
		}
	}
	return nil
}

func routeFromManifest(entry CatalogEntry, rt manifest.Route) routeConfig {
	opts := append([]RouteOption(nil), entry.options...)
	if len(rt.Methods) > 0 {
		opts = append(opts, Methods(rt.Methods...))
	}
	if rt.ResponseCode != 0 {
		opts = append(opts, ResponseCode(rt.ResponseCode))
	}
	if rt.Callback != nil {
		opts = append(opts, Callback(rt.Callback))
	}
	if rt.Description != "" {
		opts = append(opts, Description(rt.Description))
	}
	if rt.Guard.RequireAuth {
		opts = append(opts, RequireAuth())
	}
	opts = append(opts, Roles(rt.Guard.Roles...), Users(rt.Guard.Users...))
	if rt.Policy.TimeoutMS > 0 {
		opts = append(opts, Timeout(time.Duration(rt.Policy.TimeoutMS)*time.Millisecond))
	}
	return newRouteConfig(opts)
}
