package openapi

import "reflect"

// TypeToSchema maps a Go type to its JSON Schema type name. A nil type maps
// to "null" and anything unrecognized to "object".
func TypeToSchema(t reflect.Type) string {
	if t == nil {
		return "null"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return "integer"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// AnyType is the oneOf list used for untyped parameters.
var AnyType = []Schema{
	{Type: "string"},
	{Type: "number"},
	{Type: "integer"},
	{Type: "boolean"},
	{Type: "array"},
	{Type: "object"},
}
