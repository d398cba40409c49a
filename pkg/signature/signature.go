// Package signature captures the parameter list of a Go function once, at
// registration, so it can be documented and called from a JSON body.
//
// Go keeps no parameter names or default values at runtime, so both are
// declared next to the function:
//
//	fn, err := signature.Introspect(sum, []string{"a", "b", "c"}, []any{10})
//
// declares a, b as required and c as defaulting to 10.
package signature

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Extra collects body keys that match no declared parameter. A function
// whose last parameter is of this type accepts arbitrary extra keys.
type Extra map[string]any

var (
	ctxType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	extraType = reflect.TypeOf(Extra(nil))
)

// Param describes one named parameter of a function.
type Param struct {
	Name       string
	HasDefault bool
	// Default is meaningful only when HasDefault is set.
	Default any
	// Type is nil when the parameter is untyped (declared as any).
	Type reflect.Type

	defaultValue reflect.Value
}

// Typed reports whether the parameter declares a concrete type.
func (p Param) Typed() bool { return p.Type != nil }

// Signature is the ordered parameter list of a function. Required
// parameters always precede defaulted ones.
type Signature struct {
	Params       []Param
	AcceptsExtra bool
	// Return is nil when the function returns nothing, only an error, or any.
	Return reflect.Type
}

// Names returns the declared parameter names in order.
func (s Signature) Names() []string {
	out := make([]string, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Name
	}
	return out
}

// Lookup finds a parameter by name.
func (s Signature) Lookup(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Function is a callable with its captured signature.
type Function struct {
	Name string
	Signature

	fn        reflect.Value
	ctxFirst  bool
	errLast   bool
	hasResult bool
}

// Introspect validates fn and captures its signature. names label the
// parameters in order (missing names fall back to argN); defaults pair with
// the last len(defaults) parameters.
func Introspect(fn any, names []string, defaults []any) (*Function, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, &DefinitionError{Func: fmt.Sprintf("%T", fn), Reason: "not a function"}
	}
	t := v.Type()
	f := &Function{Name: funcName(v), fn: v}

	if t.IsVariadic() {
		return nil, f.defErr("variadic parameters are not supported")
	}

	// inputs: [ctx] params... [Extra]
	in := make([]reflect.Type, 0, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		in = append(in, t.In(i))
	}
	if len(in) > 0 && in[0] == ctxType {
		f.ctxFirst = true
		in = in[1:]
	}
	if len(in) > 0 && in[len(in)-1] == extraType {
		f.AcceptsExtra = true
		in = in[:len(in)-1]
	}
	for i, pt := range in {
		if pt == ctxType {
			return nil, f.defErr(fmt.Sprintf("context.Context must be the first parameter (found at %d)", i))
		}
		if pt == extraType {
			return nil, f.defErr("signature.Extra must be the last parameter")
		}
		switch pt.Kind() {
		case reflect.Chan, reflect.Func, reflect.UnsafePointer:
			return nil, f.defErr(fmt.Sprintf("parameter %d has unsupported kind %s", i, pt.Kind()))
		}
	}

	// outputs: [result] [error]
	out := make([]reflect.Type, 0, t.NumOut())
	for i := 0; i < t.NumOut(); i++ {
		out = append(out, t.Out(i))
	}
	if len(out) > 0 && out[len(out)-1] == errorType {
		f.errLast = true
		out = out[:len(out)-1]
	}
	switch len(out) {
	case 0:
	case 1:
		f.hasResult = true
		if !isAny(out[0]) {
			f.Return = out[0]
		}
	default:
		return nil, f.defErr("at most one result besides a trailing error is supported")
	}

	if len(names) > len(in) {
		return nil, f.defErr(fmt.Sprintf("%d names given for %d parameters", len(names), len(in)))
	}
	if len(defaults) > len(in) {
		return nil, f.defErr(fmt.Sprintf("%d defaults given for %d parameters", len(defaults), len(in)))
	}

	firstDefault := len(in) - len(defaults)
	seen := make(map[string]struct{}, len(in))
	f.Params = make([]Param, 0, len(in))
	for i, pt := range in {
		name := fmt.Sprintf("arg%d", i)
		if i < len(names) {
			name = strings.TrimSpace(names[i])
		}
		if name == "" {
			return nil, f.defErr(fmt.Sprintf("parameter %d has an empty name", i))
		}
		if _, dup := seen[name]; dup {
			return nil, f.defErr(fmt.Sprintf("parameter name %q is declared twice", name))
		}
		seen[name] = struct{}{}

		p := Param{Name: name}
		if !isAny(pt) {
			p.Type = pt
		}
		if i >= firstDefault {
			d := defaults[i-firstDefault]
			dv, err := convert(d, pt)
			if err != nil {
				return nil, f.defErr(fmt.Sprintf("default for %q: %v", name, err))
			}
			p.HasDefault, p.Default, p.defaultValue = true, d, dv
		}
		f.Params = append(f.Params, p)
	}
	return f, nil
}

// MustIntrospect is like Introspect but panics on error.
func MustIntrospect(fn any, names []string, defaults []any) *Function {
	f, err := Introspect(fn, names, defaults)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Function) defErr(reason string) error {
	return &DefinitionError{Func: f.Name, Reason: reason}
}

func isAny(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func funcName(v reflect.Value) string {
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "func"
	}
	n := rf.Name()
	if i := strings.LastIndex(n, "/"); i >= 0 {
		n = n[i+1:]
	}
	if i := strings.Index(n, "."); i >= 0 {
		n = n[i+1:]
	}
	return n
}
