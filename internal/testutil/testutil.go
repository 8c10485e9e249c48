// Package testutil provides shared helpers for crosscov tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file with the given content in the specified directory.
// Parent directories are created as needed.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists.
func Exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}

// Shop is a sample multi-module workspace: app depends on core (compile),
// core depends on util (runtime), util depends back on app (test).
type Shop struct {
	Root     string
	Manifest string
	Profile  string
}

// ShopManifest is the graph manifest of the sample workspace.
const ShopManifest = `modules:
  - groupId: com.example
    artifactId: app
    version: 1.0.0
    dir: app
    importPath: example.com/shop/app
    dependencies:
      - {groupId: com.example, artifactId: core, version: 1.0.0, scope: compile}
  - groupId: com.example
    artifactId: core
    version: 1.0.0
    dir: core
    importPath: example.com/shop/core
    dependencies:
      - {groupId: com.example, artifactId: util, version: 1.0.0, scope: runtime}
  - groupId: com.example
    artifactId: util
    version: 1.0.0
    dir: util
    importPath: example.com/shop/util
    dependencies:
      - {groupId: com.example, artifactId: app, version: 1.0.0, scope: test}
`

const appSource = `package app

import "example.com/shop/core"

// Run greets.
func Run() string {
	return core.Greet("shop")
}
`

const coreSource = `package core

import "example.com/shop/util"

// Greet builds a greeting.
func Greet(name string) string {
	if name == "" {
		return "hello"
	}
	return "hello " + util.Upper(name)
}
`

const utilSource = `package util

import "strings"

// Upper upper-cases s.
func Upper(s string) string {
	return strings.ToUpper(s)
}

// Lower lower-cases s.
func Lower(s string) string {
	return strings.ToLower(s)
}
`

// ShopProfile is a cover profile for the sample workspace. core/greet.go
// misses its empty-name branch; util/strings.go never runs Lower.
const ShopProfile = `mode: set
example.com/shop/app/app.go:6.21,8.2 1 1
example.com/shop/core/greet.go:6.31,7.16 1 1
example.com/shop/core/greet.go:7.16,9.3 1 0
example.com/shop/core/greet.go:10.2,10.35 1 1
example.com/shop/util/strings.go:6.28,8.2 1 1
example.com/shop/util/strings.go:11.28,13.2 1 0
`

// NewShop writes the sample workspace into a temp directory. The cover
// profile is written to app/build/coverage.out.
func NewShop(t *testing.T) Shop {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, root, "app/app.go", appSource)
	WriteFile(t, root, "app/app_test.go", "package app\n")
	WriteFile(t, root, "core/greet.go", coreSource)
	WriteFile(t, root, "util/strings.go", utilSource)
	WriteFile(t, root, "util/testdata/skip.go", "package skip\n")
	return Shop{
		Root:     root,
		Manifest: WriteFile(t, root, "crosscov.yaml", ShopManifest),
		Profile:  WriteFile(t, root, "app/build/coverage.out", ShopProfile),
	}
}
