package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscov/cli/internal/coverage"
	"github.com/crosscov/cli/internal/loader"
	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/testutil"
)

func setupShop(t *testing.T) (testutil.Shop, *module.Registry, module.Ref) {
	t.Helper()
	shop := testutil.NewShop(t)
	reg, err := loader.Load(shop.Manifest)
	require.NoError(t, err)
	root, err := reg.Find("app")
	require.NoError(t, err)
	return shop, reg, root
}

func TestRun_ExampleScenario(t *testing.T) {
	shop, reg, root := setupShop(t)

	scopes, err := module.ParseScopeSet([]string{"compile", "runtime"})
	require.NoError(t, err)

	result, err := NewPipeline(reg).Run(context.Background(), Options{
		Root:       root,
		Scopes:     scopes,
		Transitive: true,
	})
	require.NoError(t, err)
	require.False(t, result.Skipped)

	assert.Equal(t, filepath.Join(shop.Root, "app", "build", "coverage.xml"), result.Output)
	names := make([]string, len(result.Bundles))
	for i, b := range result.Bundles {
		names[i] = b.Name
	}
	assert.Equal(t, []string{"app", "core", "util"}, names)
	assert.Len(t, result.Modules, 3)
	assert.Equal(t, coverage.Counter{Missed: 2, Covered: 4}, result.Counters.Instruction)

	xml := testutil.ReadFile(t, result.Output)
	assert.Less(t, strings.Index(xml, `<group name="app">`), strings.Index(xml, `<group name="core">`))
	assert.Less(t, strings.Index(xml, `<group name="core">`), strings.Index(xml, `<group name="util">`))
	assert.NotContains(t, xml, "\n", "raw report is not indented")
}

func TestRun_DirectOnly(t *testing.T) {
	_, reg, root := setupShop(t)

	result, err := NewPipeline(reg).Run(context.Background(), Options{Root: root})
	require.NoError(t, err)
	require.Len(t, result.Bundles, 2)
	assert.Equal(t, "core", result.Bundles[1].Name)
}

func TestRun_Skip(t *testing.T) {
	shop, reg, root := setupShop(t)

	result, err := NewPipeline(reg).Run(context.Background(), Options{Root: root, Skip: true})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, "skip is set", result.SkipReason)
	assert.False(t, testutil.Exists(t, filepath.Join(shop.Root, "app", "build", "coverage.xml")))
}

func TestRun_MissingExecutionData(t *testing.T) {
	shop, reg, root := setupShop(t)
	out := filepath.Join(shop.Root, "reports", "coverage.xml")

	result, err := NewPipeline(reg).Run(context.Background(), Options{
		Root:     root,
		ExecFile: filepath.Join(shop.Root, "nope.out"),
		Output:   out,
	})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Contains(t, result.SkipReason, "nope.out")
	assert.False(t, testutil.Exists(t, filepath.Dir(out)), "nothing is created")
}

func TestRun_PrettyDeletesRaw(t *testing.T) {
	shop, reg, root := setupShop(t)
	out := filepath.Join(shop.Root, "out", "report.xml")

	result, err := NewPipeline(reg).Run(context.Background(), Options{
		Root:      root,
		Output:    out,
		Pretty:    true,
		DeleteRaw: true,
	})
	require.NoError(t, err)
	assert.Empty(t, result.RawPath)

	xml := testutil.ReadFile(t, out)
	assert.Contains(t, xml, `<!DOCTYPE report PUBLIC "-//JACOCO//DTD Report 1.0//EN" "report.dtd">`)
	assert.Contains(t, xml, "\n  <group name=\"XML\">")

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.xml", entries[0].Name())
}

func TestRun_PrettyKeepsRaw(t *testing.T) {
	shop, reg, root := setupShop(t)
	out := filepath.Join(shop.Root, "out", "report.xml")

	result, err := NewPipeline(reg).Run(context.Background(), Options{
		Root:   root,
		Output: out,
		Pretty: true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(shop.Root, "out", "raw.report.xml"), result.RawPath)
	assert.True(t, testutil.Exists(t, result.RawPath))
}

func TestRun_AggregationFailureLeavesNoOutput(t *testing.T) {
	shop, reg, root := setupShop(t)
	out := filepath.Join(shop.Root, "out", "report.xml")

	_, err := NewPipeline(reg).Run(context.Background(), Options{
		Root:           root,
		Output:         out,
		SourceEncoding: "klingon",
	})
	require.Error(t, err)

	var aggErr *AggregationError
	require.True(t, errors.As(err, &aggErr))
	assert.Equal(t, root.Key(), aggErr.Module)
	assert.False(t, testutil.Exists(t, out))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file removed")
}

func TestRun_Canceled(t *testing.T) {
	_, reg, root := setupShop(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(reg).Run(ctx, Options{Root: root})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RequiresRoot(t *testing.T) {
	_, err := NewPipeline(module.NewRegistry()).Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root module is required")
}

func TestErrors(t *testing.T) {
	cause := errors.New("boom")

	agg := &AggregationError{Module: "g:a:1", Err: cause}
	assert.Equal(t, "aggregating module g:a:1: boom", agg.Error())
	assert.ErrorIs(t, agg, cause)
	assert.Equal(t, "aggregating report: boom", (&AggregationError{Err: cause}).Error())

	ref := &ReformatError{RawPath: "/out/raw.c.xml", Err: cause}
	assert.Contains(t, ref.Error(), "raw copy kept at /out/raw.c.xml")
	assert.ErrorIs(t, ref, cause)
	assert.Equal(t, "reformatting report: boom", (&ReformatError{Err: cause}).Error())
}
