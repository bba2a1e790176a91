// Package testutil holds import-boundary checks shared by package tests.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
)

// Predicate reports whether an import path is forbidden.
type Predicate func(importPath string) bool

// Any matches when one of ps matches.
func Any(ps ...Predicate) Predicate {
	return func(path string) bool {
		for _, p := range ps {
			if p(path) {
				return true
			}
		}
		return false
	}
}

// Internal matches packages under primenest/internal.
func Internal(path string) bool {
	return strings.HasPrefix(path, "primenest/internal/")
}

// StorageDriver matches the concrete durable-area drivers.
func StorageDriver(path string) bool {
	return strings.HasPrefix(path, "primenest/internal/infra/")
}

// ThirdParty matches imports that are neither standard library nor this module.
func ThirdParty(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return strings.Contains(first, ".")
}

// Prefix matches import paths starting with prefix.
func Prefix(prefix string) Predicate {
	return func(path string) bool { return strings.HasPrefix(path, prefix) }
}

// ImportViolations lists forbidden imports of the non-test Go files in dir,
// formatted as "<import> (<file>)" and sorted.
func ImportViolations(dir string, forbidden Predicate) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				return nil, err
			}
			if forbidden(path) {
				out = append(out, path+" ("+name+")")
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// AssertNoImports fails t when a non-test file in dir imports a forbidden path.
func AssertNoImports(t testing.TB, dir string, forbidden Predicate, reason string) {
	t.Helper()
	viols, err := ImportViolations(dir, forbidden)
	if err != nil {
		t.Fatalf("scan imports in %s: %v", dir, err)
	}
	if len(viols) > 0 {
		t.Fatalf("forbidden imports (%s):\n%s", reason, strings.Join(viols, "\n"))
	}
}
