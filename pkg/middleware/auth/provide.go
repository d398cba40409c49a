package auth

import (
	"os"
	"strings"
	"time"

	"github.com/joeydtaylor/asymmetric/pkg/manifest"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)

// ProvideAuthentication reads the shared secret from the environment
// variable named by [auth] secret_env. It returns nil, leaving guarded
// routes closed, when no secret is available.
func ProvideAuthentication(cfg manifest.Config) *Middleware {
	env := strings.TrimSpace(cfg.Auth.SecretEnv)
	if env == "" {
		env = "AUTH_TOKEN_SECRET"
	}
	opts := []Option{
		WithIssuer(cfg.Auth.Issuer),
		WithAudience(cfg.Auth.Audience),
		WithAdminRole(cfg.Auth.AdminRole),
	}
	if cfg.Auth.LeewaySeconds > 0 {
		opts = append(opts, WithLeeway(time.Duration(cfg.Auth.LeewaySeconds)*time.Second))
	}
	return New([]byte(os.Getenv(env)), opts...)
}
