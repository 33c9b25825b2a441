package core

// The three assertion constructs. All share the same two-step shape: resolve
// the call's implementation and classify its origin against a boundary without
// evaluating the call, then either report the boolean, evaluate the call
// exactly once, or fail with a typed error. Resolution always runs before any
// decision to evaluate; the captured call's side effects happen at most once,
// only in the evaluate branches.

// In reports whether the call's implementation is declared inside the
// boundary. The call is never evaluated.
func In(call *CallExpr, boundary Boundary) (bool, error) {
	impl, err := call.Resolve()
	if err != nil {
		return false, err
	}

	return impl.In(boundary), nil
}

// InPackage is In against the boundary of the package declaring handle.
func InPackage(call *CallExpr, handle any) (bool, error) {
	boundary, err := PackageBoundary(handle)
	if err != nil {
		return false, err
	}

	return In(call, boundary)
}

// InSource is In against the default boundary derived from the caller skip
// frames up the stack (skip 0 is InSource's immediate caller).
func InSource(call *CallExpr, skip int) (bool, error) {
	boundary, err := CallerBoundary(skip + 1)
	if err != nil {
		return false, err
	}

	return In(call, boundary)
}

// RequireIn evaluates the call exactly once and returns its results iff the
// call's implementation is declared inside the boundary. Otherwise it returns
// a *NotInBoundaryError and the call is not evaluated.
func RequireIn(call *CallExpr, boundary Boundary) ([]any, error) {
	impl, err := call.Resolve()
	if err != nil {
		return nil, err
	}

	if !impl.In(boundary) {
		return nil, &NotInBoundaryError{Origin: impl.OriginPath, Boundary: boundary.Dir}
	}

	return call.evaluate(), nil
}

// RequireInPackage is RequireIn against the boundary of the package declaring
// handle.
func RequireInPackage(call *CallExpr, handle any) ([]any, error) {
	boundary, err := PackageBoundary(handle)
	if err != nil {
		return nil, err
	}

	return RequireIn(call, boundary)
}

// RequireInSource is RequireIn against the default caller-derived boundary.
func RequireInSource(call *CallExpr, skip int) ([]any, error) {
	boundary, err := CallerBoundary(skip + 1)
	if err != nil {
		return nil, err
	}

	return RequireIn(call, boundary)
}

// RequireNotIn evaluates the call exactly once and returns its results iff
// the call's implementation is declared outside the boundary. Otherwise it
// returns an *UnexpectedlyInBoundaryError and the call is not evaluated.
func RequireNotIn(call *CallExpr, boundary Boundary) ([]any, error) {
	impl, err := call.Resolve()
	if err != nil {
		return nil, err
	}

	if impl.In(boundary) {
		return nil, &UnexpectedlyInBoundaryError{Origin: impl.OriginPath, Boundary: boundary.Dir}
	}

	return call.evaluate(), nil
}

// RequireNotInPackage is RequireNotIn against the boundary of the package
// declaring handle.
func RequireNotInPackage(call *CallExpr, handle any) ([]any, error) {
	boundary, err := PackageBoundary(handle)
	if err != nil {
		return nil, err
	}

	return RequireNotIn(call, boundary)
}

// RequireNotInSource is RequireNotIn against the default caller-derived
// boundary.
func RequireNotInSource(call *CallExpr, skip int) ([]any, error) {
	boundary, err := CallerBoundary(skip + 1)
	if err != nil {
		return nil, err
	}

	return RequireNotIn(call, boundary)
}
