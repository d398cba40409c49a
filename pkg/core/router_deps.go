package core

import (
	"net/http"

	"github.com/joeydtaylor/asymmetric/pkg/middleware/auth"
	"github.com/joeydtaylor/asymmetric/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/asymmetric/pkg/transport/httpx"
)

// BuildDeps are the collaborators BuildRouter mounts around the endpoints.
// Every field is optional; a nil Router means a fresh chi router.
type BuildDeps struct {
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler
	Router  httpx.Router
}
