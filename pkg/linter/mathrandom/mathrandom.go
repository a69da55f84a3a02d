// Package mathrandom reports imports of math/rand in production code.
// Noise gating and target selection draw entropy through
// pkg/securerandom so traffic decisions stay unpredictable; test files
// are exempt because they deliberately seed math/rand for
// reproducibility.
package mathrandom

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
)

// Issue is one prohibited import occurrence.
type Issue struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Config narrows what LintProject scans.
type Config struct {
	// ExemptFiles are path suffixes allowed to import math/rand.
	ExemptFiles []string

	// ExemptDirectories are directories, relative to the scan root,
	// that are skipped entirely.
	ExemptDirectories []string
}

// LintProject checks every non-test Go file under rootDir. Directories
// named testdata and those starting with "." or "_" are skipped, as
// the go tool itself ignores them.
func LintProject(rootDir string, cfg *Config) ([]Issue, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	var issues []Issue
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == rootDir {
				return nil
			}
			name := d.Name()
			if name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			for _, exempt := range cfg.ExemptDirectories {
				if path == filepath.Join(rootDir, exempt) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		for _, exempt := range cfg.ExemptFiles {
			if strings.HasSuffix(path, exempt) {
				return nil
			}
		}

		fileIssues, err := LintFile(path)
		if err != nil {
			return fmt.Errorf("linting %s: %w", path, err)
		}
		issues = append(issues, fileIssues...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", rootDir, err)
	}

	return issues, nil
}

// LintFile reports math/rand imports in a single Go file.
func LintFile(path string) ([]Issue, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	var issues []Issue
	for _, imp := range node.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		if importPath != "math/rand" && !strings.HasPrefix(importPath, "math/rand/") {
			continue
		}

		msg := "math/rand is prohibited outside tests, use pkg/securerandom instead"
		if imp.Name != nil && imp.Name.Name == "." {
			msg = "dot import of math/rand is prohibited, it hides insecure functions in the file scope"
		}

		pos := fset.Position(imp.Pos())
		issues = append(issues, Issue{
			File:    path,
			Line:    pos.Line,
			Column:  pos.Column,
			Message: msg,
		})
	}

	return issues, nil
}
