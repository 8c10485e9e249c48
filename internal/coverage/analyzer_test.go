package coverage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/testutil"
)

func shopRef(shop testutil.Shop, name string) module.Ref {
	return module.Ref{
		Coordinates: module.Coordinates{GroupID: "com.example", ArtifactID: name, Version: "1.0.0"},
		Dir:         filepath.Join(shop.Root, name),
		ImportPath:  "example.com/shop/" + name,
	}
}

func loadShop(t *testing.T) (testutil.Shop, *ExecutionData) {
	t.Helper()
	shop := testutil.NewShop(t)
	exec, err := LoadExecutionData(shop.Profile)
	require.NoError(t, err)
	return shop, exec
}

func TestAnalyze_ProfiledModule(t *testing.T) {
	shop, exec := loadShop(t)

	b, err := Analyze(context.Background(), exec, shopRef(shop, "core"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "core", b.Name)
	require.Len(t, b.Packages, 1)
	pkg := b.Packages[0]
	assert.Equal(t, "example.com/shop/core", pkg.Name)

	require.Len(t, pkg.Classes, 1)
	class := pkg.Classes[0]
	assert.Equal(t, "example.com/shop/core/greet", class.Name)
	assert.Equal(t, "greet.go", class.SourceFileName)

	require.Len(t, class.Methods, 1)
	m := class.Methods[0]
	assert.Equal(t, "Greet", m.Name)
	assert.Equal(t, "(name string) string", m.Desc)
	assert.Equal(t, 6, m.Line)
	assert.Equal(t, Counter{Covered: 1}, m.Counters.Method)

	assert.Equal(t, Counter{Missed: 1, Covered: 2}, b.Counters.Instruction)
	assert.Equal(t, Counter{Missed: 2, Covered: 3}, b.Counters.Line)
	assert.Equal(t, Counter{Covered: 1}, b.Counters.Method)
	assert.Equal(t, Counter{Covered: 1}, b.Counters.Class)

	require.Len(t, pkg.SourceFiles, 1)
	lines := pkg.SourceFiles[0].Lines
	require.Len(t, lines, 5)
	assert.Equal(t, Line{Nr: 7, MI: 1, CI: 1}, lines[1])
	assert.Equal(t, Line{Nr: 8, MI: 1}, lines[2])
}

func TestAnalyze_MethodCoverage(t *testing.T) {
	shop, exec := loadShop(t)

	b, err := Analyze(context.Background(), exec, shopRef(shop, "util"), Options{})
	require.NoError(t, err)

	require.Len(t, b.Packages, 1, "testdata is skipped")
	assert.Equal(t, Counter{Missed: 1, Covered: 1}, b.Counters.Method)
	assert.Equal(t, Counter{Missed: 3, Covered: 3}, b.Counters.Line)

	methods := b.Packages[0].Classes[0].Methods
	require.Len(t, methods, 2)
	assert.Equal(t, "Upper", methods[0].Name)
	assert.Equal(t, "Lower", methods[1].Name)
	assert.Equal(t, Counter{Missed: 1}, methods[1].Counters.Method)
}

func TestAnalyze_TestFilesIgnored(t *testing.T) {
	shop, exec := loadShop(t)

	b, err := Analyze(context.Background(), exec, shopRef(shop, "app"), Options{})
	require.NoError(t, err)
	require.Len(t, b.Packages, 1)
	assert.Len(t, b.Packages[0].Classes, 1)
	assert.Equal(t, "app.go", b.Packages[0].Classes[0].SourceFileName)
}

func TestAnalyze_UnprofiledUnitsAreMissed(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "calc/sign.go", `package calc

func Sign(x int) int {
	if x > 0 {
		return 1
	}
	return 0
}
`)
	testutil.WriteFile(t, dir, "calc/types.go", "package calc\n\ntype T struct{}\n")
	testutil.WriteFile(t, dir, "nested/go.mod", "module other\n")
	testutil.WriteFile(t, dir, "nested/x.go", "package x\n\nfunc X() { println() }\n")

	exec, err := LoadExecutionData(testutil.WriteFile(t, dir, "cov.out", "mode: set\n"))
	require.NoError(t, err)

	ref := module.Ref{
		Coordinates: module.Coordinates{GroupID: "g", ArtifactID: "calc", Version: "1"},
		Dir:         dir,
		ImportPath:  "example.com/calc",
	}
	b, err := Analyze(context.Background(), exec, ref, Options{})
	require.NoError(t, err)

	require.Len(t, b.Packages, 1, "nested module is skipped")
	pkg := b.Packages[0]
	assert.Equal(t, "example.com/calc/calc", pkg.Name)
	require.Len(t, pkg.Classes, 1, "files without statements are not reported")

	assert.Equal(t, Counter{Missed: 3}, b.Counters.Instruction)
	assert.Equal(t, Counter{Missed: 3}, b.Counters.Line)
	assert.Equal(t, Counter{Missed: 1}, b.Counters.Method)
	assert.Equal(t, Counter{Missed: 1}, b.Counters.Class)
}

func TestAnalyze_IncludeExclude(t *testing.T) {
	dir := t.TempDir()
	body := "package p\n\nfunc F() { println() }\n"
	testutil.WriteFile(t, dir, "pkg/a.go", body)
	testutil.WriteFile(t, dir, "pkg/a_gen.go", body)
	testutil.WriteFile(t, dir, "cmd/main.go", "package main\n\nfunc main() { println() }\n")

	exec, err := LoadExecutionData(testutil.WriteFile(t, dir, "cov.out", "mode: set\n"))
	require.NoError(t, err)
	ref := module.Ref{Coordinates: module.Coordinates{ArtifactID: "m"}, Dir: dir, ImportPath: "x/m"}

	b, err := Analyze(context.Background(), exec, ref, Options{
		Includes: []string{"pkg/**"},
		Excludes: []string{"*_gen.go"},
	})
	require.NoError(t, err)
	require.Len(t, b.Packages, 1)
	require.Len(t, b.Packages[0].Classes, 1)
	assert.Equal(t, "x/m/pkg/a", b.Packages[0].Classes[0].Name)
}

func TestAnalyze_SourceEncoding(t *testing.T) {
	dir := t.TempDir()
	// "é" encoded as ISO-8859-1 is not valid UTF-8.
	testutil.WriteFile(t, dir, "l.go", "package l\n\nfunc Caf\xe9() string {\n\treturn \"caf\xe9\"\n}\n")
	exec, err := LoadExecutionData(testutil.WriteFile(t, dir, "cov.out", "mode: set\n"))
	require.NoError(t, err)
	ref := module.Ref{Coordinates: module.Coordinates{ArtifactID: "l"}, Dir: dir, ImportPath: "x/l"}

	_, err = Analyze(context.Background(), exec, ref, Options{})
	require.Error(t, err, "latin-1 bytes are illegal UTF-8")

	b, err := Analyze(context.Background(), exec, ref, Options{Encoding: "ISO-8859-1"})
	require.NoError(t, err)
	require.Len(t, b.Packages, 1)
	assert.Equal(t, "Café", b.Packages[0].Classes[0].Methods[0].Name)
}

func TestAnalyze_InvalidOptions(t *testing.T) {
	shop, exec := loadShop(t)

	_, err := Analyze(context.Background(), exec, shopRef(shop, "core"), Options{Includes: []string{"[a-"}})
	assert.Error(t, err)

	_, err = Analyze(context.Background(), exec, shopRef(shop, "core"), Options{Encoding: "klingon"})
	assert.Error(t, err)
}

func TestAnalyze_Canceled(t *testing.T) {
	shop, exec := loadShop(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, exec, shopRef(shop, "core"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_MissingSourceDir(t *testing.T) {
	shop, exec := loadShop(t)
	ref := shopRef(shop, "core")
	ref.SourceDirs = []string{filepath.Join(ref.Dir, "nope")}

	b, err := Analyze(context.Background(), exec, ref, Options{})
	require.NoError(t, err)
	assert.Empty(t, b.Packages)
}
