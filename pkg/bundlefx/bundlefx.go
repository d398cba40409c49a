// Package bundlefx groups the HTTP middleware providers.
package bundlefx

import (
	"github.com/joeydtaylor/asymmetric/pkg/middleware/auth"
	"github.com/joeydtaylor/asymmetric/pkg/middleware/logger"
	"github.com/joeydtaylor/asymmetric/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides *auth.Middleware, *logger.Middleware, *zap.Logger and the
// /metrics handler named "metrics". It needs a manifest.Config.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
