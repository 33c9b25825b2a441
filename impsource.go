// Package impsource lets a test assert *which* implementation of a method or
// function a call would dispatch to, without necessarily invoking it. It is a
// regression guard for codebases that pair a generic fallback (a method
// promoted from an embedded type) with type-specific specializations: the test
// asserts that the specialized path still wins dispatch, by checking where the
// resolved implementation's source file lives relative to a source boundary.
//
// Capture a call without running it, then ask about it:
//
//	call := impsource.Method(m, "Sum")
//	ok, err := impsource.IsInSource(call)          // classify only; never runs the call
//	results, err := impsource.RequireInSource(call) // runs the call iff it is in-source
//
// The default boundary is the "src" sibling of the calling test file's parent
// directory. The ...InPackage variants classify against the source directory
// of the package declaring a handle function instead.
//
// This is the public API entry point. Implementation lives in internal/core.
package impsource

import (
	"github.com/toejough/impsource/internal/core"
)

// Boundary is the source-tree root that an implementation's origin is
// classified against. It is a comparison target only and is never opened.
type Boundary = core.Boundary

// Call is a captured, not-yet-evaluated call expression.
type Call = core.CallExpr

// Implementation identifies the concrete code that dispatch selects for a
// call: its qualified name and the source file it is declared in.
type Implementation = core.Implementation

// NotInBoundaryError reports that a call required to resolve in-boundary
// resolved outside it. It carries both the actual origin and the expected
// boundary.
type NotInBoundaryError = core.NotInBoundaryError

// UnexpectedlyInBoundaryError reports that a call required to resolve
// out-of-boundary resolved inside it.
type UnexpectedlyInBoundaryError = core.UnexpectedlyInBoundaryError

// Errors re-exported from internal/core.
var (
	// ErrNoApplicableImplementation means no concrete implementation exists
	// for the call's name and argument types.
	ErrNoApplicableImplementation = core.ErrNoApplicableImplementation

	// ErrNotAFunction means a function value was expected but something else
	// was supplied.
	ErrNotAFunction = core.ErrNotAFunction

	// ErrPackageSourceUnresolvable means a package handle has no discoverable
	// source location to derive a boundary from.
	ErrPackageSourceUnresolvable = core.ErrPackageSourceUnresolvable
)

// Func captures a deferred call to a directly referenced function value.
// Method expressions work too, which pins the call to a specific package's own
// implementation regardless of what a receiver's method set would promote.
func Func(function any, args ...any) *Call {
	return core.Func(function, args...)
}

// IsIn reports whether the call's implementation is declared inside the given
// boundary. The call is never evaluated.
func IsIn(call *Call, boundary Boundary) (bool, error) {
	return core.In(call, boundary)
}

// IsInPackage reports whether the call's implementation is declared inside the
// source directory of the package declaring handle. The call is never
// evaluated.
func IsInPackage(call *Call, handle any) (bool, error) {
	return core.InPackage(call, handle)
}

// IsInSource reports whether the call's implementation is declared inside the
// caller's source tree (the "src" sibling of the calling file's parent
// directory). The call is never evaluated.
func IsInSource(call *Call) (bool, error) {
	return core.InSource(call, 1)
}

// IsSameOrSubdirectory reports whether candidate is the same path as parent or
// nested anywhere inside it.
func IsSameOrSubdirectory(parent, candidate string) bool {
	return core.IsSameOrSubdirectory(parent, candidate)
}

// IsSubdirectory reports whether candidate is strictly nested inside parent.
// Equal paths do not count.
func IsSubdirectory(parent, candidate string) bool {
	return core.IsSubdirectory(parent, candidate)
}

// Method captures a deferred call of the named method on recv. The name must
// be exported; reflection does not surface unexported methods. The args are
// already-bound representative values; only their types are consulted until
// the call is actually evaluated.
func Method(recv any, name string, args ...any) *Call {
	return core.Method(recv, name, args...)
}

// PackageBoundary derives a boundary from the package declaring handle, which
// must be a function value belonging to that package.
func PackageBoundary(handle any) (Boundary, error) {
	return core.PackageBoundary(handle)
}

// RequireIn evaluates the call exactly once and returns its results iff its
// implementation is declared inside the boundary; otherwise it returns a
// *NotInBoundaryError and the call is not evaluated.
func RequireIn(call *Call, boundary Boundary) ([]any, error) {
	return core.RequireIn(call, boundary)
}

// RequireInPackage is RequireIn against the source directory of the package
// declaring handle.
func RequireInPackage(call *Call, handle any) ([]any, error) {
	return core.RequireInPackage(call, handle)
}

// RequireInSource is RequireIn against the caller's source tree.
func RequireInSource(call *Call) ([]any, error) {
	return core.RequireInSource(call, 1)
}

// RequireNotIn evaluates the call exactly once and returns its results iff
// its implementation is declared outside the boundary; otherwise it returns an
// *UnexpectedlyInBoundaryError and the call is not evaluated.
func RequireNotIn(call *Call, boundary Boundary) ([]any, error) {
	return core.RequireNotIn(call, boundary)
}

// RequireNotInPackage is RequireNotIn against the source directory of the
// package declaring handle.
func RequireNotInPackage(call *Call, handle any) ([]any, error) {
	return core.RequireNotInPackage(call, handle)
}

// RequireNotInSource is RequireNotIn against the caller's source tree.
func RequireNotInSource(call *Call) ([]any, error) {
	return core.RequireNotInSource(call, 1)
}

// SourceBoundary returns the default boundary as derived for the calling
// file, for use with the explicit-boundary forms or for diagnostics.
func SourceBoundary() (Boundary, error) {
	return core.CallerBoundary(1)
}
