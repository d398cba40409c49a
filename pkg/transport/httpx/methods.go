package httpx

import "strings"

// Methods is the set of HTTP verbs an endpoint or callback may use, in
// canonical lower-case form. CONNECT is not accepted.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// NormalizeMethod trims and lower-cases a verb.
func NormalizeMethod(m string) string { return strings.ToLower(strings.TrimSpace(m)) }

// IsMethod reports whether m, in any case, belongs to Methods.
func IsMethod(m string) bool {
	m = NormalizeMethod(m)
	for _, x := range Methods {
		if x == m {
			return true
		}
	}
	return false
}
