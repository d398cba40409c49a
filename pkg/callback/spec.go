// Package callback validates delegation specs at registration and runs
// delegated calls whose results are delivered to a webhook.
package callback

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/joeydtaylor/asymmetric/pkg/transport/httpx"
)

// Default request headers carrying the callback attributes.
const (
	DefaultURLHeader       = "Asymmetric-Callback-URL"
	DefaultMethodHeader    = "Asymmetric-Callback-Method"
	DefaultCustomKeyHeader = "Asymmetric-Custom-Callback-Key"
)

// Keys accepted in a mapping spec.
const (
	KeyURLHeaderName       = "url_header_name"
	KeyMethodHeaderName    = "method_header_name"
	KeyCustomKeyHeaderName = "custom_key_header_name"
)

// Finders names the request headers holding each callback attribute.
type Finders struct {
	URL       string
	Method    string
	CustomKey string
}

// DefaultFinders returns the finders used when a spec overrides nothing.
func DefaultFinders() Finders {
	return Finders{URL: DefaultURLHeader, Method: DefaultMethodHeader, CustomKey: DefaultCustomKeyHeader}
}

// Options is the typed form of a mapping spec. Empty fields keep defaults.
type Options struct {
	URLHeaderName       string
	MethodHeaderName    string
	CustomKeyHeaderName string
}

// Config is a parsed spec attached to an endpoint.
type Config struct {
	Enabled bool
	Finders Finders
}

// Disabled is the config of an endpoint that answers inline.
var Disabled = Config{Finders: DefaultFinders()}

// Validate checks a spec and resolves its finders. Accepted specs are nil,
// a bool, Options, or a map[string]any / map[string]string whose keys are
// among url_header_name, method_header_name and custom_key_header_name and
// whose values are strings. Blank names keep the default header.
func Validate(spec any) (Finders, error) {
	f := DefaultFinders()
	switch s := spec.(type) {
	case nil, bool:
		return f, nil
	case Options:
		return s.apply(f), nil
	case *Options:
		if s == nil {
			return f, nil
		}
		return s.apply(f), nil
	case map[string]string:
		m := make(map[string]any, len(s))
		for k, v := range s {
			m[k] = v
		}
		return fromMap(f, m)
	case map[string]any:
		return fromMap(f, s)
	default:
		return Finders{}, &InvalidCallbackObjectError{Reason: fmt.Sprintf("unsupported spec type %T", spec)}
	}
}

// Parse validates spec and reports whether it enables delegation. Any
// mapping or Options value enables it, empty ones included.
func Parse(spec any) (Config, error) {
	f, err := Validate(spec)
	if err != nil {
		return Config{}, err
	}
	enabled := true
	switch s := spec.(type) {
	case nil:
		enabled = false
	case bool:
		enabled = s
	case *Options:
		enabled = s != nil
	}
	return Config{Enabled: enabled, Finders: f}, nil
}

// apply overrides f with the non-blank header names of o.
func (o Options) apply(f Finders) Finders {
	if v := strings.TrimSpace(o.URLHeaderName); v != "" {
		f.URL = v
	}
	if v := strings.TrimSpace(o.MethodHeaderName); v != "" {
		f.Method = v
	}
	if v := strings.TrimSpace(o.CustomKeyHeaderName); v != "" {
		f.CustomKey = v
	}
	return f
}

func fromMap(f Finders, m map[string]any) (Finders, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var o Options
	for _, k := range keys {
		v, ok := m[k].(string)
		if !ok {
			return Finders{}, &InvalidCallbackObjectError{Reason: fmt.Sprintf("%s must be a string, got %T", k, m[k])}
		}
		switch k {
		case KeyURLHeaderName:
			o.URLHeaderName = v
		case KeyMethodHeaderName:
			o.MethodHeaderName = v
		case KeyCustomKeyHeaderName:
			o.CustomKeyHeaderName = v
		default:
			return Finders{}, &InvalidCallbackObjectError{Reason: fmt.Sprintf("unknown key %q", k)}
		}
	}
	return o.apply(f), nil
}

// Target is the resolved destination of one delegated call.
type Target struct {
	URL          string
	Method       string
	CustomKey    string
	HasCustomKey bool
}

// Resolve reads the callback attributes from request headers. Header names
// match case-insensitively. A missing method header means POST.
func (f Finders) Resolve(h http.Header) (Target, error) {
	t := Target{URL: h.Get(f.URL), Method: http.MethodPost}
	if t.URL == "" {
		return Target{}, &InvalidCallbackHeadersError{Message: "Invalid callback URL"}
	}
	if vs := h.Values(f.Method); len(vs) > 0 {
		t.Method = strings.ToUpper(vs[0])
	}
	if !httpx.IsMethod(t.Method) {
		return Target{}, &InvalidCallbackHeadersError{Message: "Invalid callback HTTP method"}
	}
	t.Method = strings.ToUpper(strings.TrimSpace(t.Method))
	if vs := h.Values(f.CustomKey); len(vs) > 0 {
		t.CustomKey, t.HasCustomKey = vs[0], true
	}
	return t, nil
}

// Header documents one callback request header.
type Header struct {
	Name        string
	Required    bool
	Description string
}

// Headers lists the callback headers in URL, method, custom key order.
func (f Finders) Headers() []Header {
	return []Header{
		{Name: f.URL, Required: true, Description: "URL to the API to send the function response data."},
		{Name: f.Method, Required: false, Description: "HTTP method to use when making the callback request. Defaults to POST."},
		{Name: f.CustomKey, Required: false, Description: "Key to wrap the function output around. By default, the output won't be wrapped."},
	}
}
