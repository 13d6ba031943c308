package generator

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// Package identifies the Go package a scaffold is written into.
type Package struct {
	Name       string
	ImportPath string
}

// DetectPackage reads the package clause of the Go files in dir, skipping
// skip, and resolves the import path from the closest go.mod. The import
// path is empty when no go.mod is found.
func DetectPackage(dir, skip string) (Package, error) {
	name, err := detectPackageName(dir, skip)
	if err != nil {
		return Package{}, err
	}

	importPath, err := detectImportPath(dir)
	if err != nil {
		return Package{Name: name}, nil
	}
	return Package{Name: name, ImportPath: importPath}, nil
}

func detectPackageName(dir, skip string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == skip || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, parseErr := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if parseErr != nil {
			continue
		}
		if f.Name != nil && f.Name.Name != "" {
			return f.Name.Name, nil
		}
	}

	return packageNameFromDir(dir)
}

// packageNameFromDir uses the last module path segment at a module root and
// the directory name elsewhere.
func packageNameFromDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	if modFile, ok, _ := readModFile(absDir); ok {
		if name := sanitizePackageName(filepath.Base(modFile.Module.Mod.Path)); name != "" {
			return name, nil
		}
	}

	if name := sanitizePackageName(filepath.Base(absDir)); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("cannot derive package name from directory %s", dir)
}

// sanitizePackageName lower-cases raw and replaces hyphens and dots with
// underscores. Other invalid characters are dropped.
func sanitizePackageName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		case r == '-' || r == '.':
			if b.Len() > 0 {
				b.WriteRune('_')
			}
		}
	}

	name := b.String()
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

func detectImportPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for current := absDir; ; {
		modFile, ok, parseErr := readModFile(current)
		if parseErr != nil {
			return "", parseErr
		}
		if ok {
			rel, relErr := filepath.Rel(current, absDir)
			if relErr != nil {
				return "", relErr
			}
			if rel == "." {
				return modFile.Module.Mod.Path, nil
			}
			return modFile.Module.Mod.Path + "/" + filepath.ToSlash(rel), nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("go.mod not found in any parent of %s", dir)
		}
		current = parent
	}
}

// readModFile parses dir/go.mod. ok is false when the file does not exist
// or declares no module.
func readModFile(dir string) (*modfile.File, bool, error) {
	goModPath := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return nil, false, nil
	}
	modFile, err := modfile.Parse(goModPath, data, nil)
	if err != nil {
		return nil, false, fmt.Errorf("cannot parse %s: %w", goModPath, err)
	}
	if modFile.Module == nil {
		return nil, false, nil
	}
	return modFile, true, nil
}
