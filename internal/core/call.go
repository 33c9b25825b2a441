package core

import (
	"reflect"
)

// CallExpr is a not-yet-evaluated call. It captures enough to resolve which
// concrete implementation would handle the call (via Resolve) without running
// it; the requiring wrappers run it at most once, only after the boundary
// check, via evaluate.
type CallExpr struct {
	kind callKind

	// method form
	recv reflect.Value
	name string

	// func form
	fn reflect.Value

	// representative argument values; these supply the argument types during
	// resolution and the actual inputs during evaluation
	args []any
}

// Func captures a deferred call to a directly referenced function value.
// Method expressions work here too (e.g. Func(tensor.Grid.Prod, grid)), which
// is how a call is pinned to a specific package's own implementation, bypassing
// whatever a receiver's method set would promote.
func Func(function any, args ...any) *CallExpr {
	return &CallExpr{
		kind: funcCall,
		fn:   reflect.ValueOf(function),
		args: args,
	}
}

// Method captures a deferred call of the named method on recv. The name must
// be exported; reflection does not surface unexported methods. The args are
// already-bound representative values; only their types are consulted until
// the call is actually evaluated.
func Method(recv any, name string, args ...any) *CallExpr {
	return &CallExpr{
		kind: methodCall,
		recv: reflect.ValueOf(recv),
		name: name,
		args: args,
	}
}

// evaluate runs the captured call once and returns its results. Callers must
// have resolved the call successfully first; resolution validates that the
// implementation exists and that the arguments are applicable, so the
// reflective call here cannot fail on a type mismatch.
func (c *CallExpr) evaluate() []any {
	var callee reflect.Value

	switch c.kind {
	case funcCall:
		callee = c.fn
	case methodCall:
		callee = c.recv.MethodByName(c.name)
	}

	in := callArguments(callee.Type(), c.args)
	out := callee.Call(in)

	results := make([]any, len(out))
	for i, value := range out {
		results[i] = value.Interface()
	}

	return results
}

// callKind distinguishes the two capture forms of a CallExpr.
type callKind int

const (
	methodCall callKind = iota
	funcCall
)

// callArguments converts raw argument values into reflect values suitable for
// Call, materializing typed zero values for nil arguments.
func callArguments(calleeType reflect.Type, args []any) []reflect.Value {
	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(parameterType(calleeType, i))

			continue
		}

		in[i] = reflect.ValueOf(arg)
	}

	return in
}

// parameterType returns the declared type of parameter i, unwrapping the
// element type for the trailing variadic slot.
func parameterType(calleeType reflect.Type, i int) reflect.Type {
	last := calleeType.NumIn() - 1
	if calleeType.IsVariadic() && i >= last {
		return calleeType.In(last).Elem()
	}

	return calleeType.In(i)
}
