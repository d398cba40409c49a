package logger

import (
	"os"

	"github.com/joeydtaylor/asymmetric/pkg/manifest"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the system logger and the access-log middleware.
var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)

// LOG_DIR overrides [log] dir.
func configFrom(cfg manifest.Config) Config {
	dir := cfg.Log.Dir
	if v := os.Getenv("LOG_DIR"); v != "" {
		dir = v
	}
	return Config{Dir: dir, Level: cfg.Log.Level, Console: true}
}

func fileOr(name, def string) string {
	if name != "" {
		return name
	}
	return def
}

// ProvideLoggerMiddleware builds the access-log middleware from the manifest.
func ProvideLoggerMiddleware(cfg manifest.Config) *Middleware {
	access := NewLog(configFrom(cfg), fileOr(cfg.Log.AccessFile, "http-access.log"))
	return NewMiddleware(access, cfg.Log.BodyPaths...)
}

// ProvideLogger builds the system logger from the manifest.
func ProvideLogger(cfg manifest.Config) *zap.Logger {
	return NewLog(configFrom(cfg), fileOr(cfg.Log.File, "system.log"))
}
