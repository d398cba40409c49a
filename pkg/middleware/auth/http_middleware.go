package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/joeydtaylor/asymmetric/pkg/codec"
)

func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			u, err := m.validateToken(raw)
			if err != nil {
				Unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), userCtxKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}

// Unauthorized writes the JSON 401 used by the middleware and route guards.
func Unauthorized(w http.ResponseWriter) { writeMessage(w, http.StatusUnauthorized, "Unauthorized") }

// Forbidden writes the JSON 403 used by route guards.
func Forbidden(w http.ResponseWriter) { writeMessage(w, http.StatusForbidden, "Forbidden") }

func writeMessage(w http.ResponseWriter, status int, msg string) {
	b, _ := codec.JSON.Marshal(map[string]string{"message": msg})
	w.Header().Set("Content-Type", codec.JSON.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
