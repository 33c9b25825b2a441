package core_test

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impsource"
)

// Fixture types: gauge embeds meter and overrides one of its methods, the
// same shape as a specialized implementation shadowing a generic fallback.

type meter struct{}

// Reading is the generic fallback.
func (meter) Reading() int { return 1 }

// Scale is only available via promotion; gauge never overrides it.
func (meter) Scale(factor int) int { return factor }

type gauge struct {
	meter
	hits *int
}

// Reading is the specialization; it shadows the promoted meter.Reading.
func (g gauge) Reading() int {
	*g.hits++

	return 9
}

// Fixture types for promotion depth: span embeds two branches that both
// declare Unit, at different depths. Go promotes the shallower declaration
// even when the deeper branch is listed first.

type deepUnit struct{}

func (deepUnit) Unit() string { return "deep" }

type midWrap struct{ deepUnit }

type deepBranch struct{ midWrap }

type nearUnit struct{}

func (nearUnit) Unit() string { return "near" }

type nearBranch struct{ nearUnit }

type span struct {
	deepBranch // Unit at depth 3
	nearBranch // Unit at depth 2
}

// thisDir is the directory containing this test file, used as an in-boundary
// comparison target.
func thisDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate this test file")
	}

	return filepath.Dir(file)
}

// TestResolve_SpecializedMethodOriginatesHere verifies a directly declared
// method resolves to the file declaring it.
func TestResolve_SpecializedMethodOriginatesHere(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	hits := 0
	impl, err := impsource.Method(gauge{hits: &hits}, "Reading").Resolve()

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(impl.OriginPath).To(HaveSuffix("resolve_test.go"))
	g.Expect(impl.Name).To(ContainSubstring("gauge"))
	g.Expect(hits).To(Equal(0), "resolution must not evaluate the call")
}

// TestResolve_PromotedMethodOriginatesAtDeclaration verifies that a promoted
// method is unwrapped past the compiler-generated shim to the embedded type's
// declaration, not reported as <autogenerated>.
func TestResolve_PromotedMethodOriginatesAtDeclaration(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	hits := 0
	impl, err := impsource.Method(gauge{hits: &hits}, "Scale", 3).Resolve()

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(impl.OriginPath).To(HaveSuffix("resolve_test.go"))
	g.Expect(impl.Name).To(ContainSubstring("meter.Scale"))
}

// TestResolve_PromotionPrefersShallowerBranch verifies that when sibling
// embedded branches declare the same method at different depths, resolution
// reports the shallower declaration, matching which one Go actually dispatches
// to. The deeper branch comes first in field order, so a branch-at-a-time
// descent would find it first and report the wrong implementation.
func TestResolve_PromotionPrefersShallowerBranch(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	impl, err := impsource.Method(span{}, "Unit").Resolve()

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(span{}.Unit()).To(Equal("near"), "dispatch selects the depth-2 declaration")
	g.Expect(impl.Name).To(ContainSubstring("nearUnit.Unit"))
	g.Expect(impl.Name).NotTo(ContainSubstring("deepUnit"))
	g.Expect(impl.OriginPath).To(HaveSuffix("resolve_test.go"))
}

// TestResolve_PointerReceiverSeesValueMethods verifies resolution through the
// pointer method set's wrapper over a value-receiver method.
func TestResolve_PointerReceiverSeesValueMethods(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	hits := 0
	impl, err := impsource.Method(&gauge{hits: &hits}, "Reading").Resolve()

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(impl.OriginPath).To(HaveSuffix("resolve_test.go"))
}

// TestResolve_MissingMethod verifies the error kind for a name miss.
func TestResolve_MissingMethod(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := impsource.Method(meter{}, "NoSuchMethod").Resolve()

	g.Expect(errors.Is(err, impsource.ErrNoApplicableImplementation)).To(BeTrue())
	g.Expect(err.Error()).To(ContainSubstring("NoSuchMethod"))
}

// TestResolve_InapplicableArguments verifies the error kind for a signature
// miss: right name, wrong argument types or count.
func TestResolve_InapplicableArguments(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := impsource.Method(meter{}, "Scale", "three").Resolve()
	g.Expect(errors.Is(err, impsource.ErrNoApplicableImplementation)).To(BeTrue())

	_, err = impsource.Method(meter{}, "Scale", 1, 2).Resolve()
	g.Expect(errors.Is(err, impsource.ErrNoApplicableImplementation)).To(BeTrue())

	_, err = impsource.Method(meter{}, "Scale", nil).Resolve()
	g.Expect(errors.Is(err, impsource.ErrNoApplicableImplementation)).To(BeTrue(),
		"nil is not applicable to a non-nilable parameter")
}

// TestResolve_FuncForm verifies resolution of a directly referenced function
// and of a method expression.
func TestResolve_FuncForm(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	impl, err := impsource.Func(meter.Reading, meter{}).Resolve()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(impl.OriginPath).To(HaveSuffix("resolve_test.go"))
	g.Expect(impl.Name).To(ContainSubstring("meter.Reading"))

	impl, err = impsource.Func(thisDir, t).Resolve()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(impl.OriginPath).To(HaveSuffix("resolve_test.go"))
}

// TestResolve_FuncForm_NotAFunction verifies the error kind for a non-function
// value.
func TestResolve_FuncForm_NotAFunction(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := impsource.Func(42).Resolve()

	g.Expect(errors.Is(err, impsource.ErrNotAFunction)).To(BeTrue())
}

// TestResolve_FuncForm_NilFunction verifies the error kind for a typed nil
// function value.
func TestResolve_FuncForm_NilFunction(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var fn func() int

	_, err := impsource.Func(fn).Resolve()

	g.Expect(errors.Is(err, impsource.ErrNoApplicableImplementation)).To(BeTrue())
}

// TestImplementation_In verifies origin classification, including the
// unknown-origin case which is never inside any boundary.
func TestImplementation_In(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := thisDir(t)
	within := impsource.Implementation{Name: "x", OriginPath: filepath.Join(dir, "somefile.go")}
	elsewhere := impsource.Implementation{Name: "y", OriginPath: "/somewhere/else/somefile.go"}
	unknown := impsource.Implementation{Name: "z"}

	g.Expect(within.In(impsource.Boundary{Dir: dir})).To(BeTrue())
	g.Expect(elsewhere.In(impsource.Boundary{Dir: dir})).To(BeFalse())
	g.Expect(unknown.In(impsource.Boundary{Dir: dir})).To(BeFalse())
	g.Expect(within.In(impsource.Boundary{})).To(BeFalse(), "an empty boundary contains nothing")
	g.Expect(unknown.In(impsource.Boundary{})).To(BeFalse())
}

// TestResolve_VariadicApplicability verifies variadic signatures accept any
// trailing count of assignable arguments.
func TestResolve_VariadicApplicability(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	join := func(sep string, parts ...string) string { return strings.Join(parts, sep) }

	_, err := impsource.Func(join, "-").Resolve()
	g.Expect(err).NotTo(HaveOccurred())

	_, err = impsource.Func(join, "-", "a", "b", "c").Resolve()
	g.Expect(err).NotTo(HaveOccurred())

	_, err = impsource.Func(join).Resolve()
	g.Expect(errors.Is(err, impsource.ErrNoApplicableImplementation)).To(BeTrue())

	_, err = impsource.Func(join, "-", 7).Resolve()
	g.Expect(errors.Is(err, impsource.ErrNoApplicableImplementation)).To(BeTrue())
}
