// Package testutil loads test fixtures shared by package tests.
//
// Fixtures are txtar archives. The archive comment is a free-form
// description; each file is one named part of the case:
//
//	Nested arrays of objects.
//	-- schema.json --
//	{"type": "array", "items": {"type": "object"}}
//	-- want.ts --
//	export type Root = {...}[];
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// Case is one fixture archive.
type Case struct {
	// Name is the archive file name without extension
	Name string
	// Comment is the archive's leading description
	Comment string
	files   map[string][]byte
}

// File returns the named part, or nil when absent.
func (c *Case) File(name string) []byte {
	return c.files[name]
}

// Has reports whether the named part exists.
func (c *Case) Has(name string) bool {
	_, ok := c.files[name]
	return ok
}

// Text returns the named part as a string with exactly one trailing
// newline trimmed, matching how txtar stores file bodies.
func (c *Case) Text(name string) string {
	return strings.TrimSuffix(string(c.files[name]), "\n")
}

// LoadCase parses a single txtar archive.
func LoadCase(t *testing.T, path string) *Case {
	t.Helper()

	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to parse fixture %s: %v", path, err)
	}
	c := &Case{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Comment: strings.TrimSpace(string(ar.Comment)),
		files:   make(map[string][]byte, len(ar.Files)),
	}
	for _, f := range ar.Files {
		c.files[f.Name] = f.Data
	}
	return c
}

// LoadCases parses every *.txtar file in dir, sorted by name.
func LoadCases(t *testing.T, dir string) []*Case {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	if err != nil {
		t.Fatalf("Failed to list fixtures in %s: %v", dir, err)
	}
	if len(paths) == 0 {
		t.Fatalf("No fixtures found in %s", dir)
	}
	sort.Strings(paths)

	cases := make([]*Case, 0, len(paths))
	for _, p := range paths {
		cases = append(cases, LoadCase(t, p))
	}
	return cases
}

// WriteTempFile writes data to name inside a fresh temporary directory and
// returns the file path. The directory is removed when the test completes.
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return path
}
