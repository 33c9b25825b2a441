package core

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// autogeneratedFile is what the runtime reports as the source file of
// compiler-synthesized method wrappers (promoted methods, pointer-receiver
// shims). Those wrappers are never the implementation a user cares about, so
// resolution unwraps them to find the declaring method underneath.
const autogeneratedFile = "<autogenerated>"

// Implementation is the concrete callable that dispatch selects for a call.
type Implementation struct {
	// Name is the fully qualified symbol name of the implementation.
	Name string

	// OriginPath is the absolute source file where the implementation is
	// declared, or empty when the runtime has no recorded file for it.
	OriginPath string
}

// In reports whether the implementation's origin file lives inside the given
// boundary. An implementation with no recorded origin is never inside any
// boundary, and nothing is inside an empty boundary.
func (impl Implementation) In(boundary Boundary) bool {
	if impl.OriginPath == "" || boundary.Dir == "" {
		return false
	}

	return IsSameOrSubdirectory(boundary.Dir, impl.OriginPath)
}

// Resolve determines the concrete implementation that would handle the call,
// without evaluating it. For the method form, the method is looked up in the
// receiver's method set and the captured argument values are checked for
// applicability against its signature; a miss on either is
// ErrNoApplicableImplementation. Resolution never judges whether the origin is
// inside or outside a boundary; that belongs to the wrapper layer.
func (c *CallExpr) Resolve() (Implementation, error) {
	switch c.kind {
	case funcCall:
		return c.resolveFunc()
	default:
		return c.resolveMethod()
	}
}

// resolveFunc resolves the function form: the supplied function value is
// itself the implementation, so resolution only validates it and locates its
// declaring file.
func (c *CallExpr) resolveFunc() (Implementation, error) {
	if !c.fn.IsValid() || c.fn.Kind() != reflect.Func {
		return Implementation{}, fmt.Errorf("%w: expected a function value, got %s", ErrNotAFunction, valueKind(c.fn))
	}

	if c.fn.IsNil() {
		return Implementation{}, fmt.Errorf("%w: function value is nil", ErrNoApplicableImplementation)
	}

	impl := implementationForPC(uintptr(c.fn.UnsafePointer()))

	if err := applicable(impl.Name, c.fn.Type(), c.args); err != nil {
		return Implementation{}, err
	}

	return impl, nil
}

// resolveMethod resolves the method form against the receiver's method set.
func (c *CallExpr) resolveMethod() (Implementation, error) {
	if !c.recv.IsValid() {
		return Implementation{}, fmt.Errorf("%w: method %q: receiver is untyped nil", ErrNoApplicableImplementation, c.name)
	}

	recvType := c.recv.Type()

	method, ok := recvType.MethodByName(c.name)
	if !ok {
		return Implementation{}, fmt.Errorf("%w: %s has no method %q", ErrNoApplicableImplementation, recvType, c.name)
	}

	// method.Func's signature includes the receiver as parameter 0; check the
	// captured args against the rest.
	if err := applicable(recvType.String()+"."+c.name, boundMethodType(c.recv, c.name), c.args); err != nil {
		return Implementation{}, err
	}

	return methodImplementation(recvType, method), nil
}

// boundMethodType returns the signature of the named method as seen by a
// caller (receiver excluded).
func boundMethodType(recv reflect.Value, name string) reflect.Type {
	return recv.MethodByName(name).Type()
}

// applicable checks that the captured argument values could be passed to a
// callable with the given signature.
func applicable(name string, calleeType reflect.Type, args []any) error {
	declared := calleeType.NumIn()

	if calleeType.IsVariadic() {
		if len(args) < declared-1 {
			return fmt.Errorf("%w: %s takes at least %d arguments, got %d",
				ErrNoApplicableImplementation, name, declared-1, len(args))
		}
	} else if len(args) != declared {
		return fmt.Errorf("%w: %s takes %d arguments, got %d",
			ErrNoApplicableImplementation, name, declared, len(args))
	}

	for i, arg := range args {
		paramType := parameterType(calleeType, i)

		if arg == nil {
			if !nilable(paramType) {
				return fmt.Errorf("%w: %s argument %d is nil but parameter type %s is not nilable",
					ErrNoApplicableImplementation, name, i, paramType)
			}

			continue
		}

		if !reflect.TypeOf(arg).AssignableTo(paramType) {
			return fmt.Errorf("%w: %s argument %d is %T, not assignable to %s",
				ErrNoApplicableImplementation, name, i, arg, paramType)
		}
	}

	return nil
}

// implementationForPC maps a program counter to the implementation declared
// there. Unknown or synthesized locations yield an empty OriginPath.
func implementationForPC(pc uintptr) Implementation {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return Implementation{}
	}

	file, _ := fn.FileLine(fn.Entry())

	return Implementation{
		// this suffix gets appended to method values. It's unimportant.
		Name:       strings.TrimSuffix(fn.Name(), "-fm"),
		OriginPath: originFile(file),
	}
}

// methodImplementation locates the declaring file of a method found in
// recvType's method set. When the runtime reports a compiler-generated
// wrapper, the declaration is searched for underneath: first on the base type
// (pointer-receiver shims over value methods), then on embedded fields
// (promoted methods), recursively.
func methodImplementation(recvType reflect.Type, method reflect.Method) Implementation {
	impl, wrapped := directImplementation(method)
	if !wrapped {
		return impl
	}

	if underlying, ok := declaredImplementation(recvType, method.Name); ok {
		return underlying
	}

	// Nothing declared anywhere we can see (e.g. dispatch through an embedded
	// interface). The implementation exists but has no recorded origin.
	return Implementation{Name: impl.Name}
}

// directImplementation resolves a method's own entry point. The second return
// reports whether the entry point is a compiler-generated wrapper that should
// be unwrapped.
func directImplementation(method reflect.Method) (Implementation, bool) {
	if !method.Func.IsValid() {
		// Interface method: no static entry point at all.
		return Implementation{Name: method.Name}, true
	}

	fn := runtime.FuncForPC(method.Func.Pointer())
	if fn == nil {
		return Implementation{Name: method.Name}, false
	}

	file, _ := fn.FileLine(fn.Entry())
	impl := Implementation{
		Name:       strings.TrimSuffix(fn.Name(), "-fm"),
		OriginPath: originFile(file),
	}

	return impl, file == autogeneratedFile
}

// declaredImplementation searches recvType for the real declaration of the
// named method, descending through pointer shims and embedded fields the same
// way method promotion does.
func declaredImplementation(recvType reflect.Type, name string) (Implementation, bool) {
	// A pointer type's method set wraps the base type's value-receiver
	// methods; the declaration lives on the base type.
	if recvType.Kind() == reflect.Pointer {
		if impl, ok := declaredOn(recvType.Elem(), name); ok {
			return impl, true
		}

		recvType = recvType.Elem()
	}

	// Promotion selects the shallowest declaration, so walk embedded fields
	// level by level: every field at depth N, across every branch, is checked
	// before any field at depth N+1.
	seen := map[reflect.Type]bool{recvType: true}
	frontier := []reflect.Type{recvType}

	for len(frontier) > 0 {
		var next []reflect.Type

		for _, holder := range frontier {
			for _, fieldType := range embeddedFieldTypes(holder) {
				base := fieldType
				if base.Kind() == reflect.Pointer {
					base = base.Elem()
				}

				for _, candidate := range []reflect.Type{base, reflect.PointerTo(base)} {
					if impl, ok := declaredOn(candidate, name); ok {
						return impl, true
					}
				}

				if base.Kind() == reflect.Struct && !seen[base] {
					seen[base] = true
					next = append(next, base)
				}
			}
		}

		frontier = next
	}

	return Implementation{}, false
}

// embeddedFieldTypes lists the anonymous field types of a struct type.
func embeddedFieldTypes(t reflect.Type) []reflect.Type {
	if t.Kind() != reflect.Struct {
		return nil
	}

	embedded := make([]reflect.Type, 0, t.NumField())

	for i := range t.NumField() {
		field := t.Field(i)
		if field.Anonymous {
			embedded = append(embedded, field.Type)
		}
	}

	return embedded
}

// declaredOn reports the named method's implementation if it is declared
// directly on t (not via a wrapper).
func declaredOn(t reflect.Type, name string) (Implementation, bool) {
	method, ok := t.MethodByName(name)
	if !ok || !method.Func.IsValid() {
		return Implementation{}, false
	}

	fn := runtime.FuncForPC(method.Func.Pointer())
	if fn == nil {
		return Implementation{}, false
	}

	file, _ := fn.FileLine(fn.Entry())
	if file == autogeneratedFile || originFile(file) == "" {
		return Implementation{}, false
	}

	return Implementation{
		Name:       strings.TrimSuffix(fn.Name(), "-fm"),
		OriginPath: originFile(file),
	}, true
}

// nilable reports whether a nil argument value is legal for the parameter type.
func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// originFile normalizes a runtime-reported file into an origin path, mapping
// the runtime's "unknown" markers to empty.
func originFile(file string) string {
	if file == "" || file == "?" || file == autogeneratedFile {
		return ""
	}

	return file
}

// valueKind describes a reflect value's kind for error messages, tolerating
// the zero Value.
func valueKind(v reflect.Value) string {
	if !v.IsValid() {
		return "untyped nil"
	}

	return v.Kind().String()
}
