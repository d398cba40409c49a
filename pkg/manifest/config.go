package manifest

import (
	"errors"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the top-level manifest.
type Config struct {
	App      App      `toml:"app"`
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
	Auth     Auth     `toml:"auth"`
	Callback Callback `toml:"callback"`
	Routes   []Route  `toml:"route"`
}

// App describes the generated document and the built-in docs routes.
type App struct {
	Title       string `toml:"title"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	// Docs toggles /openapi.json, /openapi.yaml, /docs and /redoc. Default on.
	Docs *bool `toml:"docs"`
}

type Server struct {
	Listen         string `toml:"listen"`
	ReadTimeoutMS  int    `toml:"read_timeout_ms"`
	WriteTimeoutMS int    `toml:"write_timeout_ms"`
	IdleTimeoutMS  int    `toml:"idle_timeout_ms"`
	TLSCert        string `toml:"tls_cert"`
	TLSKey         string `toml:"tls_key"`
}

type Log struct {
	Dir        string `toml:"dir"`
	File       string `toml:"file"`
	AccessFile string `toml:"access_file"`
	Level      string `toml:"level"`
	// BodyPaths lists routes whose small JSON request bodies are logged.
	BodyPaths []string `toml:"body_paths"`
}

// Auth configures bearer-token verification for guarded routes. Secrets are
// read from the environment, never from the manifest.
type Auth struct {
	SecretEnv     string `toml:"secret_env"`
	Issuer        string `toml:"issuer"`
	Audience      string `toml:"audience"`
	LeewaySeconds int    `toml:"leeway_seconds"`
	AdminRole     string `toml:"admin_role"`
}

// Callback configures webhook delivery.
type Callback struct {
	SigningKeyEnv string `toml:"signing_key_env"`
	Issuer        string `toml:"issuer"`
	// TimeoutMS bounds each outbound webhook request; 0 means no timeout.
	TimeoutMS int `toml:"timeout_ms"`
	// BearerEnv names an environment variable whose token is sent to
	// webhooks in BearerHeader (default Authorization).
	BearerEnv    string `toml:"bearer_env"`
	BearerHeader string `toml:"bearer_header"`
	// OAuth authenticates deliveries with a client-credentials token.
	OAuth *CallbackOAuth `toml:"oauth"`
}

type CallbackOAuth struct {
	TokenURL        string   `toml:"token_url"`
	ClientIDEnv     string   `toml:"client_id_env"`
	ClientSecretEnv string   `toml:"client_secret_env"`
	Scopes          []string `toml:"scopes"`
}

// DocsEnabled reports whether the built-in documentation routes are served.
func (a App) DocsEnabled() bool { return a.Docs == nil || *a.Docs }

// Parse decodes and validates a manifest.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalizes routes in place and checks every section.
func (c *Config) Validate() error {
	if c.Server.ReadTimeoutMS < 0 || c.Server.WriteTimeoutMS < 0 || c.Server.IdleTimeoutMS < 0 {
		return errors.New("server timeouts must be >= 0")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server.tls_cert and server.tls_key must be set together")
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q invalid", c.Log.Level)
	}
	if c.Auth.LeewaySeconds < 0 {
		return errors.New("auth.leeway_seconds must be >= 0")
	}
	if c.Callback.TimeoutMS < 0 {
		return errors.New("callback.timeout_ms must be >= 0")
	}
	if o := c.Callback.OAuth; o != nil {
		if c.Callback.BearerEnv != "" {
			return errors.New("callback.bearer_env and callback.oauth are exclusive")
		}
		if o.TokenURL == "" || o.ClientIDEnv == "" || o.ClientSecretEnv == "" {
			return errors.New("callback.oauth needs token_url, client_id_env and client_secret_env")
		}
	}
	return c.validateRoutes()
}
