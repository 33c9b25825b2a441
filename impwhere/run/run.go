// Package run implements the main logic for the impwhere tool in a testable
// way.
package run

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"slices"
	"sort"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
)

// Interfaces - Public

// PackageLoader loads the parsed source files of a package directory.
type PackageLoader interface {
	Load(dir string) ([]SourceFile, error)
}

// Structs - Public

// MethodOrigin describes where one method of the reported type is implemented.
type MethodOrigin struct {
	Name     string
	File     string // declaring file, for methods declared directly on the type
	Promoted string // embedded type the method is promoted from, if any
}

// Report describes the dispatch surface of a struct type: every method name
// and the place its implementation lives.
type Report struct {
	TypeName string
	Methods  []MethodOrigin
	External []string // embedded types from other packages, not resolved here
}

// SourceFile pairs a parsed file with the name it was parsed from.
type SourceFile struct {
	Name string
	File *dst.File
}

// Structs - Private

// cliArgs defines the command-line arguments for the reporter.
type cliArgs struct {
	Type string `arg:"positional,required" help:"struct type to report on (e.g. Matrix)"`
	Dir  string `arg:"--dir" default:"." help:"package directory to inspect"`
	All  bool   `arg:"--all" help:"include unexported methods"`
}

// packageIndex holds everything the analysis needs from the parsed package.
type packageIndex struct {
	// methods maps a receiver type name to its directly declared methods.
	methods map[string][]MethodOrigin
	// embedded maps a struct type name to its embedded field descriptions.
	embedded map[string][]embeddedField
	// types records which struct type names exist in the package.
	types map[string]bool
}

// embeddedField describes one embedded field of a struct.
type embeddedField struct {
	name  string // local type name, or qualified pkg.Type for external embeds
	local bool
}

// Functions - Public

// BuildReport analyzes parsed package files and reports where each method of
// the named struct type is implemented: declared directly (with its file), or
// promoted from an embedded type. Embedded types from other packages are
// listed separately since their methods cannot be resolved from this package
// alone.
func BuildReport(files []SourceFile, typeName string, includeUnexported bool) (Report, error) {
	index := indexPackage(files)

	if !index.types[typeName] {
		return Report{}, fmt.Errorf("%w: %q", errTypeNotFound, typeName)
	}

	report := Report{TypeName: typeName}
	seen := map[string]bool{}

	for _, method := range index.methods[typeName] {
		if !includeUnexported && !token.IsExported(method.Name) {
			continue
		}

		seen[method.Name] = true

		report.Methods = append(report.Methods, method)
	}

	collectPromoted(&report, index, typeName, seen, map[string]bool{typeName: true}, includeUnexported)

	sort.Slice(report.Methods, func(i, j int) bool { return report.Methods[i].Name < report.Methods[j].Name })
	sort.Strings(report.External)
	report.External = slices.Compact(report.External)

	return report, nil
}

// Run executes the impwhere tool logic. It takes command-line arguments, a
// PackageLoader for package parsing, and a writer for the report. It returns
// an error if any step fails.
func Run(args []string, pkgLoader PackageLoader, out io.Writer) error {
	parsed := cliArgs{}

	parser, err := arg.NewParser(arg.Config{Program: "impwhere"}, &parsed)
	if err != nil {
		return fmt.Errorf("failed to build argument parser: %w", err)
	}

	err = parser.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}

	files, err := pkgLoader.Load(parsed.Dir)
	if err != nil {
		return fmt.Errorf("failed to load package in %s: %w", parsed.Dir, err)
	}

	report, err := BuildReport(files, parsed.Type, parsed.All)
	if err != nil {
		return err
	}

	writeReport(out, report)

	return nil
}

// Functions - Private

// collectPromoted walks the embedded-field graph shallowest-first, adding
// promoted methods that are not shadowed by anything already seen.
func collectPromoted(
	report *Report,
	index packageIndex,
	typeName string,
	seen map[string]bool,
	visited map[string]bool,
	includeUnexported bool,
) {
	for _, field := range index.embedded[typeName] {
		if !field.local {
			report.External = append(report.External, field.name)

			continue
		}

		if visited[field.name] {
			continue
		}

		visited[field.name] = true

		for _, method := range index.methods[field.name] {
			if seen[method.Name] {
				continue
			}

			if !includeUnexported && !token.IsExported(method.Name) {
				continue
			}

			seen[method.Name] = true

			report.Methods = append(report.Methods, MethodOrigin{
				Name:     method.Name,
				Promoted: field.name,
			})
		}

		collectPromoted(report, index, field.name, seen, visited, includeUnexported)
	}
}

// embeddedFields extracts the embedded fields of a struct type expression.
func embeddedFields(structType *dst.StructType) []embeddedField {
	var fields []embeddedField

	for _, field := range structType.Fields.List {
		if len(field.Names) != 0 {
			continue
		}

		switch expr := unwrapStar(field.Type).(type) {
		case *dst.Ident:
			fields = append(fields, embeddedField{name: expr.Name, local: true})
		case *dst.SelectorExpr:
			if pkg, ok := expr.X.(*dst.Ident); ok {
				fields = append(fields, embeddedField{name: pkg.Name + "." + expr.Sel.Name})
			}
		}
	}

	return fields
}

// indexPackage extracts type declarations, embedded fields, and methods from
// the parsed files.
func indexPackage(files []SourceFile) packageIndex {
	index := packageIndex{
		methods:  map[string][]MethodOrigin{},
		embedded: map[string][]embeddedField{},
		types:    map[string]bool{},
	}

	for _, source := range files {
		for _, decl := range source.File.Decls {
			switch decl := decl.(type) {
			case *dst.GenDecl:
				if decl.Tok != token.TYPE {
					continue
				}

				for _, spec := range decl.Specs {
					typeSpec, ok := spec.(*dst.TypeSpec)
					if !ok {
						continue
					}

					structType, ok := typeSpec.Type.(*dst.StructType)
					if !ok {
						continue
					}

					index.types[typeSpec.Name.Name] = true
					index.embedded[typeSpec.Name.Name] = embeddedFields(structType)
				}
			case *dst.FuncDecl:
				recvName, ok := receiverTypeName(decl)
				if !ok {
					continue
				}

				index.methods[recvName] = append(index.methods[recvName], MethodOrigin{
					Name: decl.Name.Name,
					File: source.Name,
				})
			}
		}
	}

	return index
}

// receiverTypeName extracts the receiver's type name from a method
// declaration.
func receiverTypeName(decl *dst.FuncDecl) (string, bool) {
	if decl.Recv == nil || len(decl.Recv.List) != 1 {
		return "", false
	}

	ident, ok := unwrapStar(decl.Recv.List[0].Type).(*dst.Ident)
	if !ok {
		return "", false
	}

	return ident.Name, true
}

// unwrapStar strips a pointer layer from a type expression if present.
func unwrapStar(expr dst.Expr) dst.Expr {
	if star, ok := expr.(*dst.StarExpr); ok {
		return star.X
	}

	return expr
}

// writeReport renders one line per method plus any unresolved external
// embeds.
func writeReport(out io.Writer, report Report) {
	fmt.Fprintf(out, "%s:\n", report.TypeName)

	for _, method := range report.Methods {
		if method.Promoted != "" {
			fmt.Fprintf(out, "  %-20s promoted from %s\n", method.Name, method.Promoted)

			continue
		}

		fmt.Fprintf(out, "  %-20s %s\n", method.Name, method.File)
	}

	for _, external := range report.External {
		fmt.Fprintf(out, "  (embedded %s: methods promoted, not resolved)\n", external)
	}
}

// unexported variables.
var (
	errTypeNotFound = errors.New("struct type not found in package")
)
