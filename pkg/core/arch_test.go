package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLeafPackagesImportOnlyStdlib verifies pkg/core and pkg/interval only
// import the standard library.
func TestLeafPackagesImportOnlyStdlib(t *testing.T) {
	for _, dir := range []string{".", filepath.Join("..", "interval")} {
		t.Run(dir, func(t *testing.T) {
			fset := token.NewFileSet()

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("Failed to read %s: %v", dir, err)
			}

			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
					continue
				}
				if strings.HasSuffix(entry.Name(), "_test.go") {
					continue
				}

				path := filepath.Join(dir, entry.Name())
				f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
				if err != nil {
					t.Errorf("Failed to parse %s: %v", path, err)
					continue
				}

				for _, imp := range f.Imports {
					importPath := strings.Trim(imp.Path.Value, `"`)

					// Stdlib paths have no dot in the first element
					if !strings.Contains(strings.SplitN(importPath, "/", 2)[0], ".") {
						continue
					}
					t.Errorf("%s imports forbidden package: %s", path, importPath)
				}
			}
		})
	}
}
