// Package core turns plain Go functions into documented JSON endpoints whose
// work can be delegated to a caller-supplied webhook.
package core

import (
	"context"
	"strings"
	"sync"

	"github.com/joeydtaylor/asymmetric/pkg/callback"
	"github.com/joeydtaylor/asymmetric/pkg/endpoints"
	"github.com/joeydtaylor/asymmetric/pkg/openapi"
	"go.uber.org/zap"
)

const (
	DefaultTitle   = "Asymmetric API"
	DefaultVersion = "0.0.1"
)

// App owns the endpoint registry, the function catalog and the callback
// dispatcher of one service.
type App struct {
	mu          sync.RWMutex
	title       string
	version     string
	description string
	docs        bool
	log         *zap.Logger
	client      callback.HTTPDoer
	signer      *callback.Signer
	creds       callback.Credentials
	dispatcher  *callback.Dispatcher
	builtins    bool

	registry *endpoints.Registry
	catalog  *Catalog
}

// New returns an empty application. Documentation routes are served unless
// WithoutDocs is given.
func New(opts ...Option) *App {
	a := &App{
		title:    DefaultTitle,
		version:  DefaultVersion,
		docs:     true,
		log:      zap.NewNop(),
		registry: endpoints.New(),
		catalog:  NewCatalog(),
	}
	a.Configure(opts...)
	return a
}

// Configure applies options after construction. It must run before the
// application serves requests, since it replaces the callback dispatcher.
func (a *App) Configure(opts ...Option) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, o := range opts {
		o(a)
	}
	dopts := []callback.Option{callback.WithLogger(a.log.Named("callback"))}
	if a.client != nil {
		dopts = append(dopts, callback.WithClient(a.client))
	}
	if a.signer != nil {
		dopts = append(dopts, callback.WithSigner(a.signer))
	}
	if a.creds != nil {
		dopts = append(dopts, callback.WithCredentials(a.creds))
	}
	if a.dispatcher != nil {
		dopts = append(dopts, callback.WithTasks(a.dispatcher.Tasks()))
	}
	a.dispatcher = callback.NewDispatcher(dopts...)
}

func (a *App) Title() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.title
}

func (a *App) Version() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

// Registry exposes the registered endpoints.
func (a *App) Registry() *endpoints.Registry { return a.registry }

// Catalog holds functions that manifests refer to by name.
func (a *App) Catalog() *Catalog { return a.catalog }

// Logger is the application logger; never nil.
func (a *App) Logger() *zap.Logger {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.log
}

func (a *App) callbacks() *callback.Dispatcher {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dispatcher
}

// Document builds the OpenAPI document for every registered function.
func (a *App) Document() openapi.Document {
	a.mu.RLock()
	info := openapi.Info{Title: a.title, Version: a.version, Description: a.description}
	a.mu.RUnlock()
	return openapi.Build(a.registry, info)
}

// Shutdown waits for outstanding webhook deliveries or until ctx is done.
func (a *App) Shutdown(ctx context.Context) error {
	return a.callbacks().Tasks().Wait(ctx)
}

// Option configures an App.
type Option func(*App)

func WithTitle(title string) Option {
	return func(a *App) {
		if t := strings.TrimSpace(title); t != "" {
			a.title = t
		}
	}
}

func WithVersion(version string) Option {
	return func(a *App) {
		if v := strings.TrimSpace(version); v != "" {
			a.version = v
		}
	}
}

func WithDescription(desc string) Option { return func(a *App) { a.description = desc } }

func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithHTTPClient sets the client used for webhook deliveries.
func WithHTTPClient(c callback.HTTPDoer) Option { return func(a *App) { a.client = c } }

// WithSigner signs every webhook delivery.
func WithSigner(s *callback.Signer) Option { return func(a *App) { a.signer = s } }

// WithCredentials authenticates webhook deliveries.
func WithCredentials(c callback.Credentials) Option { return func(a *App) { a.creds = c } }

func WithoutDocs() Option { return func(a *App) { a.docs = false } }
