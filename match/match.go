// Package match provides matchers for asserting where a call's implementation
// lives. This package is designed to be dot-imported alongside gomega
// matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/impsource/match"
//	)
//
//	g.Expect(impl.OriginPath).To(BeWithin(srcDir))
//	g.Expect(impsource.Method(m, "Sum")).To(ResolveWithin(boundary))
package match

import (
	"errors"
	"fmt"

	"github.com/toejough/impsource"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// It carries the same method set as gomega's GomegaMatcher, so these matchers
// drop straight into gomega assertions.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
	NegatedFailureMessage(actual any) string
}

// BeWithin returns a matcher that succeeds when the actual value is a path
// equal to dir or nested anywhere inside it.
func BeWithin(dir string) Matcher {
	return &withinMatcher{dir: dir}
}

// ResolveWithin returns a matcher for *impsource.Call values that succeeds
// when the call's implementation is declared inside the boundary. The call is
// resolved, never evaluated.
func ResolveWithin(boundary impsource.Boundary) Matcher {
	return &resolveMatcher{boundary: boundary}
}

type resolveMatcher struct {
	boundary impsource.Boundary
	resolved impsource.Implementation
}

func (m *resolveMatcher) FailureMessage(any) string {
	origin := m.resolved.OriginPath
	if origin == "" {
		origin = "an unknown location (no recorded source file)"
	}

	return fmt.Sprintf("implementation %s is declared in %s, not within %s",
		m.resolved.Name, origin, m.boundary.Dir)
}

func (m *resolveMatcher) NegatedFailureMessage(any) string {
	origin := m.resolved.OriginPath
	if origin == "" {
		origin = "an unknown location (no recorded source file)"
	}

	return fmt.Sprintf("implementation %s is declared in %s, unexpectedly within %s",
		m.resolved.Name, origin, m.boundary.Dir)
}

func (m *resolveMatcher) Match(actual any) (bool, error) {
	call, ok := actual.(*impsource.Call)
	if !ok {
		return false, fmt.Errorf("%w: expected *impsource.Call, got %T", errTypeMismatch, actual)
	}

	impl, err := call.Resolve()
	if err != nil {
		return false, err
	}

	m.resolved = impl

	return impl.In(m.boundary), nil
}

type withinMatcher struct {
	dir string
}

func (m *withinMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("path %v is not within %s", actual, m.dir)
}

func (m *withinMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("path %v is unexpectedly within %s", actual, m.dir)
}

func (m *withinMatcher) Match(actual any) (bool, error) {
	path, ok := actual.(string)
	if !ok {
		return false, fmt.Errorf("%w: expected a path string, got %T", errTypeMismatch, actual)
	}

	return impsource.IsSameOrSubdirectory(m.dir, path), nil
}
