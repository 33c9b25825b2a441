package core

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
)

// SourceDirName is the conventional name of the source tree that the default
// boundary points at: the "src" sibling of the calling test file's directory.
const SourceDirName = "src"

// Boundary is the source-tree root that an implementation's origin is
// classified against. The directory is a comparison target only; it is never
// opened and need not exist on disk.
type Boundary struct {
	Dir string
}

// CallerBoundary derives the default boundary from the source file of the
// caller skip frames up the stack (skip 0 is CallerBoundary's immediate
// caller): the file's directory's parent, descended into its "src" sibling.
func CallerBoundary(skip int) (Boundary, error) {
	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return Boundary{}, fmt.Errorf("%w: cannot determine the calling file", ErrPackageSourceUnresolvable)
	}

	return Boundary{Dir: filepath.Join(filepath.Dir(filepath.Dir(file)), SourceDirName)}, nil
}

// PackageBoundary derives a boundary from the package that declares handle,
// which must be a function value belonging to that package (a constructor or
// method expression works). The boundary is the directory containing the
// handle's source file.
func PackageBoundary(handle any) (Boundary, error) {
	fn := reflect.ValueOf(handle)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return Boundary{}, fmt.Errorf("%w: package handle: expected a function value, got %s",
			ErrPackageSourceUnresolvable, valueKind(fn))
	}

	impl := implementationForPC(uintptr(fn.UnsafePointer()))
	if impl.OriginPath == "" {
		return Boundary{}, fmt.Errorf("%w: %s has no recorded source file",
			ErrPackageSourceUnresolvable, handleName(impl))
	}

	return Boundary{Dir: filepath.Dir(impl.OriginPath)}, nil
}

// handleName names a handle for error messages, tolerating unresolvable ones.
func handleName(impl Implementation) string {
	if impl.Name == "" {
		return "the package handle"
	}

	return impl.Name
}
