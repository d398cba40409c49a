package callback

import (
	"context"
	"os"
	"strings"
)

// Credential is one header added to outbound deliveries.
type Credential struct {
	HeaderName  string
	HeaderValue string
}

// Credentials issues the header that authenticates a delivery to the
// receiving webhook.
type Credentials interface {
	Issue(ctx context.Context, t Target) (Credential, error)
}

type NoCredentials struct{}

func (NoCredentials) Issue(context.Context, Target) (Credential, error) { return Credential{}, nil }

// StaticBearer sends a token read from the environment on every delivery.
type StaticBearer struct {
	HeaderName string // default: "Authorization"
	EnvVar     string // default: CALLBACK_STATIC_BEARER
}

func (p StaticBearer) Issue(context.Context, Target) (Credential, error) {
	h := p.HeaderName
	if h == "" {
		h = "Authorization"
	}
	env := p.EnvVar
	if env == "" {
		env = "CALLBACK_STATIC_BEARER"
	}
	val := strings.TrimSpace(os.Getenv(env))
	if val == "" {
		return Credential{}, nil
	}
	if h == "Authorization" && !strings.HasPrefix(val, "Bearer ") {
		val = "Bearer " + val
	}
	return Credential{HeaderName: h, HeaderValue: val}, nil
}
