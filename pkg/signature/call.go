package signature

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/joeydtaylor/asymmetric/pkg/codec"
)

// Filter keeps only the body keys the function receives. With AcceptsExtra
// the full body is kept; with no parameters nothing is.
func (f *Function) Filter(body map[string]any) map[string]any {
	if f.AcceptsExtra {
		return body
	}
	out := make(map[string]any, len(f.Params))
	for _, p := range f.Params {
		if v, ok := body[p.Name]; ok {
			out[p.Name] = v
		}
	}
	return out
}

// Bind converts a decoded JSON body into call arguments, excluding the
// optional leading context.
func (f *Function) Bind(body map[string]any) ([]reflect.Value, error) {
	args := make([]reflect.Value, 0, len(f.Params)+1)
	for i, p := range f.Params {
		pt := f.paramType(i)
		raw, ok := body[p.Name]
		switch {
		case ok:
			v, err := convert(raw, pt)
			if err != nil {
				return nil, &ArgumentError{Name: p.Name, Err: err}
			}
			args = append(args, v)
		case p.HasDefault:
			args = append(args, p.defaultValue)
		default:
			return nil, &MissingParamError{Func: f.Name, Name: p.Name}
		}
	}
	if f.AcceptsExtra {
		extra := Extra{}
		for k, v := range body {
			if _, declared := f.Lookup(k); !declared {
				extra[k] = v
			}
		}
		args = append(args, reflect.ValueOf(extra))
	}
	return args, nil
}

// Call binds body and invokes the function. A panic inside the function is
// returned as a *PanicError.
func (f *Function) Call(ctx context.Context, body map[string]any) (out any, err error) {
	args, err := f.Bind(body)
	if err != nil {
		return nil, err
	}
	if f.ctxFirst {
		if ctx == nil {
			ctx = context.Background()
		}
		args = append([]reflect.Value{reflect.ValueOf(ctx)}, args...)
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &PanicError{Func: f.Name, Value: r}
		}
	}()

	res := f.fn.Call(args)
	if f.errLast {
		if e := res[len(res)-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
	}
	if f.hasResult {
		return res[0].Interface(), nil
	}
	return nil, nil
}

// paramType returns the Go type of the i-th named parameter.
func (f *Function) paramType(i int) reflect.Type {
	if f.ctxFirst {
		i++
	}
	return f.fn.Type().In(i)
}

// convert turns a decoded JSON value into a value of type t. Values that are
// not directly assignable take a JSON round trip.
func convert(raw any, t reflect.Type) (reflect.Value, error) {
	if raw == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("null is not a valid %s", t)
	}
	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(t) {
		v := reflect.New(t).Elem()
		v.Set(rv)
		return v, nil
	}
	switch n := raw.(type) {
	case float64:
		return convertNumber(n, t)
	case int64, uint64:
		return convertInteger(rv, t)
	}
	b, err := codec.JSON.Marshal(raw)
	if err != nil {
		return reflect.Value{}, err
	}
	ptr := reflect.New(t)
	if err := codec.JSON.Unmarshal(b, ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s", b, t)
	}
	return ptr.Elem(), nil
}

// convertNumber narrows a JSON number to a numeric kind without losing
// precision. Integers too large for float64 arrive through convertInteger.
func convertNumber(n float64, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := int64(n)
		if float64(i) != n || v.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("cannot use %v as %s", n, t)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := uint64(n)
		if n < 0 || float64(u) != n || v.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("cannot use %v as %s", n, t)
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		if v.OverflowFloat(n) {
			return reflect.Value{}, fmt.Errorf("cannot use %v as %s", n, t)
		}
		v.SetFloat(n)
	default:
		return reflect.Value{}, fmt.Errorf("cannot use number %v as %s", n, t)
	}
	return v, nil
}

// convertInteger narrows an int64 or uint64 body value to t.
func convertInteger(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	signed := rv.Kind() == reflect.Int64
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !signed && rv.Uint() > math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("cannot use %v as %s", rv, t)
		}
		i := rv.Convert(reflect.TypeOf(int64(0))).Int()
		if v.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("cannot use %v as %s", rv, t)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if signed && rv.Int() < 0 {
			return reflect.Value{}, fmt.Errorf("cannot use %v as %s", rv, t)
		}
		u := rv.Convert(reflect.TypeOf(uint64(0))).Uint()
		if v.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("cannot use %v as %s", rv, t)
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		v.SetFloat(rv.Convert(reflect.TypeOf(float64(0))).Float())
	default:
		return reflect.Value{}, fmt.Errorf("cannot use number %v as %s", rv, t)
	}
	return v, nil
}
