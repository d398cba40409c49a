package auth

type Role struct {
	Name string `json:"name"`
}

type AuthenticationSource struct {
	Provider string `json:"provider"`
}

// User is the identity carried by a verified bearer token.
type User struct {
	Username             string               `json:"username"`
	AuthenticationSource AuthenticationSource `json:"authenticationSource"`
	Role                 Role                 `json:"role"`
	Roles                []string             `json:"roles,omitempty"`
}

// HasRole reports whether the user holds name as primary or secondary role.
func (u User) HasRole(name string) bool {
	if u.Role.Name == name {
		return true
	}
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}
