package auth

import "context"

func userFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userCtxKey).(User)
	return u, ok
}

// GetUser returns the caller, or the zero User. Safe on a nil Middleware.
func (m *Middleware) GetUser(ctx context.Context) User {
	u, _ := userFrom(ctx)
	return u
}

// IsAuthenticated reports whether a named caller was resolved.
func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	u, ok := userFrom(ctx)
	return ok && u.Username != ""
}

// IsRole reports whether the caller holds role. Admins hold every role.
func (m *Middleware) IsRole(ctx context.Context, role string) bool {
	u, ok := userFrom(ctx)
	return ok && (u.HasRole(role) || m.isAdmin(u))
}

// IsUser reports whether the caller is username. Admins match every user.
func (m *Middleware) IsUser(ctx context.Context, username string) bool {
	u, ok := userFrom(ctx)
	return ok && (u.Username == username || m.isAdmin(u))
}

func (m *Middleware) IsAdmin(ctx context.Context) bool {
	u, ok := userFrom(ctx)
	return ok && m.isAdmin(u)
}

func (m *Middleware) isAdmin(u User) bool {
	return m != nil && m.adminRole != "" && u.HasRole(m.adminRole)
}
