package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/asymmetric/pkg/bundlefx"
	"github.com/joeydtaylor/asymmetric/pkg/callback"
	"github.com/joeydtaylor/asymmetric/pkg/core"
	"github.com/joeydtaylor/asymmetric/pkg/manifest"
	"github.com/joeydtaylor/asymmetric/pkg/middleware/auth"
	"github.com/joeydtaylor/asymmetric/pkg/middleware/logger"
	"github.com/joeydtaylor/asymmetric/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs only
	ManifestEnv     string // e.g., ASYMMETRIC_MANIFEST
	DefaultManifest string // e.g., "manifest.toml"; may be absent
	Manifest        string // explicit path; must exist
	Listen          string // explicit address; wins over env and manifest
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	TLSCertEnv      string // SSL_SERVER_CERTIFICATE
	TLSKeyEnv       string // SSL_SERVER_KEY
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithManifest(path string) Option        { return func(c *Config) { c.Manifest = path } }
func WithListen(addr string) Option          { return func(c *Config) { c.Listen = addr } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithTLSCertKeyEnv(cert, key string) Option {
	return func(c *Config) { c.TLSCertEnv, c.TLSKeyEnv = cert, key }
}

// DefaultListen is used when neither options, env nor manifest set one.
const DefaultListen = "127.0.0.1:8000"

func defaultConfig() Config {
	return Config{
		Service:         "asymmetric",
		ManifestEnv:     "ASYMMETRIC_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
	}
}

// Module serves app: it loads the manifest, provides the middleware bundle
// and the chi router, mounts the app under the name "app" and runs the HTTP
// server for the lifetime of the fx application.
func Module(app *core.App, opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		fx.Supply(app),
		fx.Provide(func() Config { return cfg }),
		fx.Provide(provideManifest),
		// Core middleware
		bundlefx.Module,
		// Router impl
		fx.Provide(httpx.NewChi),
		fx.Provide(fx.Annotate(
			provideRouter,
			fx.ParamTags(``, ``, ``, ``, `name:"metrics"`, ``, ``), // app,man,a,lm,m,r,zl
			fx.ResultTags(`name:"app"`),
		)),
		// Lifecycle
		fx.Invoke(registerHooks),
	)
}

// ---------- Manifest ----------

func provideManifest(cfg Config) (manifest.Config, error) {
	path := cfg.Manifest
	if path == "" {
		path = envOr(cfg.ManifestEnv, cfg.DefaultManifest)
		if !fileExists(path) {
			return manifest.Config{}, nil
		}
	}
	return core.LoadConfig(path)
}

// ---------- Router ----------

func provideRouter(
	app *core.App,
	man manifest.Config,
	a *auth.Middleware,
	lm *logger.Middleware,
	/* name:"metrics" */ m http.Handler,
	r httpx.Router,
	zl *zap.Logger,
) (http.Handler, error) {
	opts, err := appOptions(man, zl)
	if err != nil {
		return nil, err
	}
	app.Configure(opts...)
	if err := app.Load(man); err != nil {
		return nil, fmt.Errorf("manifest routes: %w", err)
	}
	return core.BuildRouter(app, core.BuildDeps{
		Auth:    a,
		LogMW:   lm,
		Metrics: m,
		Router:  r,
	})
}

// appOptions turns the [callback] section into dispatcher settings.
func appOptions(man manifest.Config, zl *zap.Logger) ([]core.Option, error) {
	opts := []core.Option{core.WithLogger(zl)}
	if ms := man.Callback.TimeoutMS; ms > 0 {
		opts = append(opts, core.WithHTTPClient(&http.Client{Timeout: time.Duration(ms) * time.Millisecond}))
	}
	if env := man.Callback.SigningKeyEnv; env != "" {
		key := os.Getenv(env)
		if key == "" {
			return nil, fmt.Errorf("callback.signing_key_env: %s is empty", env)
		}
		s, err := callback.NewSigner([]byte(key), man.Callback.Issuer)
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.WithSigner(s))
	}
	if o := man.Callback.OAuth; o != nil {
		opts = append(opts, core.WithCredentials(&callback.ClientCredentials{
			TokenURL:     o.TokenURL,
			ClientID:     os.Getenv(o.ClientIDEnv),
			ClientSecret: os.Getenv(o.ClientSecretEnv),
			Scopes:       o.Scopes,
		}))
	}
	if env := man.Callback.BearerEnv; env != "" {
		opts = append(opts, core.WithCredentials(callback.StaticBearer{
			HeaderName: man.Callback.BearerHeader,
			EnvVar:     env,
		}))
	}
	return opts, nil
}

// ---------- Lifecycle (HTTP server) ----------

type serverDeps struct {
	fx.In
	Logger   *zap.Logger
	App      *core.App
	Manifest manifest.Config
	Handler  http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, cfg Config, d serverDeps) {
	s := d.Manifest.Server
	addr := cfg.Listen
	if addr == "" {
		addr = envOr(cfg.ListenEnv, orDefault(s.Listen, DefaultListen))
	}
	cert := envOr(cfg.TLSCertEnv, s.TLSCert)
	key := envOr(cfg.TLSKeyEnv, s.TLSKey)

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.Handler,
		ReadTimeout:  msOr(s.ReadTimeoutMS, 15*time.Second),
		WriteTimeout: msOr(s.WriteTimeoutMS, 30*time.Second),
		IdleTimeout:  msOr(s.IdleTimeoutMS, 60*time.Second),
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)
	log := d.Logger.With(zap.String("service", cfg.Service))

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			if useTLS {
				log.Info("server starting (TLS)", zap.String("addr", ln.Addr().String()), zap.String("cert", cert))
				go func() {
					if err := srv.ServeTLS(ln, cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("server failed", zap.Error(err))
					}
				}()
				return nil
			}
			log.Info("server starting (PLAINTEXT)", zap.String("addr", ln.Addr().String()))
			srv.TLSConfig = nil
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("server stopping")
			err := srv.Shutdown(ctx)
			_ = d.Logger.Sync()
			return errors.Join(err, d.App.Shutdown(ctx))
		},
	})
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func msOr(ms int, def time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
