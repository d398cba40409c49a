package auth

import "time"

type ctxKey int

const userCtxKey ctxKey = iota

// Middleware verifies HS256 bearer tokens and stores the caller in the
// request context. Requests without a token pass through unauthenticated;
// route guards decide whether that is enough.
type Middleware struct {
	secret    []byte
	issuer    string
	audience  string
	leeway    time.Duration
	adminRole string
}

type Option func(*Middleware)

func WithIssuer(iss string) Option      { return func(m *Middleware) { m.issuer = iss } }
func WithAudience(aud string) Option    { return func(m *Middleware) { m.audience = aud } }
func WithLeeway(d time.Duration) Option { return func(m *Middleware) { m.leeway = d } }
func WithAdminRole(role string) Option  { return func(m *Middleware) { m.adminRole = role } }

// New returns nil when secret is empty, meaning auth is not configured.
func New(secret []byte, opts ...Option) *Middleware {
	if len(secret) == 0 {
		return nil
	}
	m := &Middleware{secret: secret, leeway: 60 * time.Second}
	for _, o := range opts {
		o(m)
	}
	return m
}
