package core

import (
	"net/http"

	"github.com/joeydtaylor/asymmetric/pkg/endpoints"
	"github.com/joeydtaylor/asymmetric/pkg/middleware/auth"
)

func withGuard(next http.Handler, a *auth.Middleware, g endpoints.Guard) http.Handler {
	if g.Open() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Guarded routes stay closed when auth is not configured.
		if a == nil || !a.IsAuthenticated(r.Context()) {
			auth.Unauthorized(w)
			return
		}
		if len(g.Users) > 0 {
			for _, u := range g.Users {
				if a.IsUser(r.Context(), u) {
					next.ServeHTTP(w, r)
					return
				}
			}
			auth.Forbidden(w)
			return
		}
		if len(g.Roles) > 0 {
			for _, role := range g.Roles {
				if a.IsRole(r.Context(), role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			auth.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
