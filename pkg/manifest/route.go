package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/joeydtaylor/asymmetric/pkg/callback"
	"github.com/joeydtaylor/asymmetric/pkg/transport/httpx"
)

// Route exposes a cataloged function at a path.
type Route struct {
	Path    string   `toml:"path"`
	Methods []string `toml:"methods"`
	// Handler names a function registered in the application catalog.
	Handler      string `toml:"handler"`
	ResponseCode int    `toml:"response_code"`
	// Callback is false, true, or a table with url_header_name,
	// method_header_name and custom_key_header_name.
	Callback    any    `toml:"callback"`
	Description string `toml:"description"`
	Guard       Guard  `toml:"guard"`
	Policy      Policy `toml:"policy"`
}

type Guard struct {
	Roles       []string `toml:"roles"`
	Users       []string `toml:"users"`
	RequireAuth bool     `toml:"require_auth"`
}

type Policy struct {
	TimeoutMS int `toml:"timeout_ms"`
}

// CallbackConfig parses the route's callback spec.
func (r Route) CallbackConfig() (callback.Config, error) {
	return callback.Parse(r.Callback)
}

// normalize path/methods
func (r *Route) normalize() error {
	if r.Path == "" {
		return errors.New("path is required")
	}
	if !strings.HasPrefix(r.Path, "/") {
		r.Path = "/" + r.Path
	}
	if r.Path != "/" {
		r.Path = path.Clean(r.Path)
	}
	if len(r.Methods) == 0 {
		r.Methods = []string{"post"}
	}
	for i, m := range r.Methods {
		r.Methods[i] = httpx.NormalizeMethod(m)
	}
	r.Handler = strings.TrimSpace(r.Handler)
	return nil
}

// validate fields that are independent of global state.
func (r *Route) validate() error {
	if r.Handler == "" {
		return errors.New("handler is required")
	}
	for _, m := range r.Methods {
		if !httpx.IsMethod(m) {
			return fmt.Errorf("method %q invalid", m)
		}
	}
	if r.ResponseCode != 0 && (r.ResponseCode < 100 || r.ResponseCode > 599) {
		return fmt.Errorf("response_code %d invalid", r.ResponseCode)
	}
	if _, err := r.CallbackConfig(); err != nil {
		return err
	}
	if r.Policy.TimeoutMS < 0 {
		return errors.New("policy.timeout_ms must be >= 0")
	}
	return nil
}
