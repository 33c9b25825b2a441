// impsource/impwhere is a tool that reports where each method of a struct
// type is implemented: declared directly on the type (with the declaring
// file), or promoted from an embedded type. Run it from a package directory:
//
//	impwhere Matrix
//
// Add `--all` to include unexported methods, or `--dir` to inspect another
// package directory. A `//go:generate impwhere <Type>` comment next to the
// type keeps the report handy during review.
package main

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst/decorator"
	"github.com/toejough/impsource/impwhere/run"
)

// main is the entry point of the impwhere tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realPackageLoader implements run.PackageLoader using direct DST parsing.
type realPackageLoader struct{}

// Load parses the non-test .go files of a package directory.
func (pl *realPackageLoader) Load(dir string) ([]run.SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)

	var files []run.SourceFile

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		dstFile, err := dec.ParseFile(filepath.Join(dir, name), nil, 0)
		if err != nil {
			// Skip files with parse errors
			continue
		}

		files = append(files, run.SourceFile{Name: name, File: dstFile})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no parsable .go files in %s", errNoPackageFound, dir)
	}

	return files, nil
}

// unexported variables.
var errNoPackageFound = errors.New("package not found")
