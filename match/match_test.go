package match_test

import (
	"path/filepath"
	"runtime"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impsource"
	"github.com/toejough/impsource/match"
)

type probe struct{}

func (probe) Ping() string { return "pong" }

// TestBeWithin verifies path membership matching, including the failure
// message.
func TestBeWithin(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	matcher := match.BeWithin("/a/b")

	ok, err := matcher.Match("/a/b/c")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	ok, err = matcher.Match("/a/g/c")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(matcher.FailureMessage("/a/g/c")).To(ContainSubstring("/a/b"))

	_, err = matcher.Match(42)
	g.Expect(err).To(HaveOccurred())
}

// TestBeWithin_GomegaIntegration verifies the matcher works inside a gomega
// assertion via duck typing.
func TestBeWithin_GomegaIntegration(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect("/a/b/c").To(match.BeWithin("/a/b"))
}

// TestResolveWithin verifies call-resolving matching without evaluating the
// call.
func TestResolveWithin(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, file, _, ok := runtime.Caller(0)
	g.Expect(ok).To(BeTrue())

	here := impsource.Boundary{Dir: filepath.Dir(file)}
	elsewhere := impsource.Boundary{Dir: "/no/such/tree/src"}

	g.Expect(impsource.Method(probe{}, "Ping")).To(match.ResolveWithin(here))
	g.Expect(impsource.Method(probe{}, "Ping")).NotTo(match.ResolveWithin(elsewhere))

	matcher := match.ResolveWithin(elsewhere)
	matched, err := matcher.Match(impsource.Method(probe{}, "Ping"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(matched).To(BeFalse())
	g.Expect(matcher.FailureMessage(nil)).To(ContainSubstring("match_test.go"))

	_, err = matcher.Match("not a call")
	g.Expect(err).To(HaveOccurred())
}
