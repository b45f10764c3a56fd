package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePath = "github.com/leapstack-labs/emlquality"

// packageImports returns the imports of the non-test files in dir, keyed by file name.
func packageImports(t *testing.T, dir string) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}

	out := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") || strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}
		for _, imp := range f.Imports {
			out[path] = append(out[path], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return out
}

// TestCoreImportsOnly verifies pkg/core only imports the standard library.
// The Golden Rule: pkg/core imports ONLY stdlib.
func TestCoreImportsOnly(t *testing.T) {
	for file, imports := range packageImports(t, ".") {
		for _, importPath := range imports {
			// Stdlib paths have no dot in the first element
			if strings.Contains(strings.Split(importPath, "/")[0], ".") {
				t.Errorf("%s imports forbidden package: %s", file, importPath)
			}
		}
	}
}

// TestPublicPackagesDoNotImportInternal verifies the pkg/ tree stays usable
// as a library: nothing under pkg/ may reach into internal/.
func TestPublicPackagesDoNotImportInternal(t *testing.T) {
	dirs := []string{".", "../quality", "../eml", "../eml/xmltools", "../query"}

	for _, dir := range dirs {
		for file, imports := range packageImports(t, dir) {
			for _, importPath := range imports {
				if strings.HasPrefix(importPath, modulePath+"/internal/") {
					t.Errorf("%s imports internal package: %s", file, importPath)
				}
			}
		}
	}
}

// TestQualityDoesNotImportEML verifies the check machinery stays independent
// of the EML document model.
func TestQualityDoesNotImportEML(t *testing.T) {
	for file, imports := range packageImports(t, "../quality") {
		for _, importPath := range imports {
			if strings.HasPrefix(importPath, modulePath+"/pkg/eml") {
				t.Errorf("%s imports %s (quality must not depend on eml)", file, importPath)
			}
		}
	}
}
