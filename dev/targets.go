//go:build targ

package main

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/sh"
)

// Build builds the local impwhere binary.
func Build() error {
	fmt.Println("Building impwhere...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/impwhere", "./impwhere")
}

// Check runs all checks & fixes on the code, in order of correctness.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(
		Tidy,         // clean up the module dependencies
		FormatCheck,  // no use linting unformatted code
		ReorderDecls, // linter will yell about declaration order if not correct
		Test,         // does our code work?
		Lint,
	)
}

// CheckForFail runs all checks on the code for determining whether any fail.
func CheckForFail() error {
	fmt.Println("Checking...")

	// Checks from fastest to slowest
	return targ.Deps(
		FormatCheck,
		ReorderDeclsCheck,
		LintForFail,
		TestForFail,
	)
}

// Clean cleans up the dev env.
func Clean() {
	fmt.Println("Cleaning...")
	os.Remove("coverage.out")
}

// FormatCheck reports files whose formatting differs from gofmt's, with a
// unified diff for each.
func FormatCheck() error {
	fmt.Println("Checking formatting...")

	files, err := goFiles(".")
	if err != nil {
		return err
	}

	unformatted := 0

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		formatted, err := format.Source(content)
		if err != nil {
			return fmt.Errorf("failed to format %s: %w", file, err)
		}

		if string(content) == string(formatted) {
			continue
		}

		unformatted++

		diff := textdiff.Unified(file+" (current)", file+" (gofmt)", string(content), string(formatted))
		if diff != "" {
			fmt.Printf("\n%s\n", diff)
		}
	}

	if unformatted > 0 {
		return fmt.Errorf("%d file(s) need formatting", unformatted)
	}

	return nil
}

// Lint runs the linter, fixing what it can.
func Lint() error {
	fmt.Println("Linting...")

	return sh.Run("golangci-lint", "run", "--fix", "./...")
}

// LintForFail runs the linter, just for failure.
func LintForFail() error {
	fmt.Println("Linting...")

	return sh.Run("golangci-lint", "run", "./...")
}

// ReorderDecls reorders declarations in all source files.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	return reorderAll(true)
}

// ReorderDeclsCheck reports files whose declarations are out of order, with a
// diff, without rewriting anything.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	return reorderAll(false)
}

// Test runs the unit tests.
func Test() error {
	fmt.Println("Running unit tests...")

	return sh.Run(
		"go",
		"test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile=coverage.out",
		"-cover",
		"./...",
	)
}

// TestForFail runs the unit tests, just for failure.
func TestForFail() error {
	fmt.Println("Running unit tests...")

	return sh.Run("go", "test", "-timeout=2m", "-race", "./...")
}

// Tidy tidies up the module dependencies.
func Tidy() error {
	fmt.Println("Tidying...")

	return sh.Run("go", "mod", "tidy")
}

// goFiles lists the checked-in .go files under root, skipping hidden
// directories.
func goFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			// Skip hidden and underscore-prefixed directories, like the go
			// tool does.
			name := entry.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.HasSuffix(path, ".go") {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}

// reorderAll reorders declarations in every source file, or just reports
// diffs when write is false.
func reorderAll(write bool) error {
	files, err := goFiles(".")
	if err != nil {
		return err
	}

	outOfOrder := 0

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		reordered, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", file, err)

			continue
		}

		if string(content) == reordered {
			continue
		}

		outOfOrder++

		if write {
			if err := os.WriteFile(file, []byte(reordered), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}

			continue
		}

		diff := textdiff.Unified(file+" (current)", file+" (reordered)", string(content), reordered)
		if diff != "" {
			fmt.Printf("\n%s\n", diff)
		}
	}

	if outOfOrder > 0 && !write {
		fmt.Println("Run 'targ reorder-decls' to fix.")

		return fmt.Errorf("%d file(s) need reordering", outOfOrder)
	}

	return nil
}
