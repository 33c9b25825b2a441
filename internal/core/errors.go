package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for resolution and boundary derivation failures.
// These are always propagated to the caller; nothing in this package recovers.
var (
	// ErrNoApplicableImplementation is returned when no concrete implementation
	// exists for the call's name and argument types.
	ErrNoApplicableImplementation = errors.New("no applicable implementation")

	// ErrNotAFunction is returned when a function value was expected but
	// something else was supplied.
	ErrNotAFunction = errors.New("not a function")

	// ErrPackageSourceUnresolvable is returned when a package handle has no
	// discoverable source location to derive a boundary from.
	ErrPackageSourceUnresolvable = errors.New("package source unresolvable")
)

// NotInBoundaryError reports that a call resolved to an implementation declared
// outside the boundary it was required to be inside.
type NotInBoundaryError struct {
	Origin   string // source file of the resolved implementation; empty if unknown
	Boundary string // the source tree the implementation was expected inside
}

// Error describes the mismatch with both the actual and expected location.
func (e *NotInBoundaryError) Error() string {
	return fmt.Sprintf(
		"implementation is declared in %s, outside the expected source tree %s",
		describeOrigin(e.Origin), e.Boundary,
	)
}

// UnexpectedlyInBoundaryError reports that a call resolved to an implementation
// declared inside a boundary it was required to be outside of.
type UnexpectedlyInBoundaryError struct {
	Origin   string
	Boundary string
}

// Error describes the mismatch with both the actual and expected location.
func (e *UnexpectedlyInBoundaryError) Error() string {
	return fmt.Sprintf(
		"implementation is declared in %s, unexpectedly inside the source tree %s",
		describeOrigin(e.Origin), e.Boundary,
	)
}

// describeOrigin renders an origin path for an error message, substituting a
// readable phrase when no source file was recorded for the implementation.
func describeOrigin(origin string) string {
	if origin == "" {
		return "an unknown location (no recorded source file)"
	}

	return origin
}
