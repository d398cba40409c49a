package signature

import "fmt"

// DefinitionError reports a function that cannot be exposed.
type DefinitionError struct {
	Func   string
	Reason string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("function %s: %s", e.Func, e.Reason)
}

// MissingParamError reports a required parameter absent from the body.
type MissingParamError struct {
	Func string
	Name string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("%s() missing required argument: '%s'", e.Func, e.Name)
}

// ArgumentError reports a body value that does not fit its parameter type.
type ArgumentError struct {
	Name string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument '%s': %v", e.Name, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// PanicError wraps a value recovered from a panicking function.
type PanicError struct {
	Func  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Func, e.Value)
}
