package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/testutil"
)

func TestNewReportCmd(t *testing.T) {
	cmd := NewReportCmd()

	assert.Equal(t, "report [module]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	flags := []string{
		"skip", "exec-file", "output", "source-encoding", "include", "exclude",
		"scope", "transitive", "pretty", "delete-raw", "group-name",
	}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestReport_Transitive(t *testing.T) {
	setupHome(t)
	shop := testutil.NewShop(t)

	out, err := execute(t, "report", "app", "--graph", shop.Manifest,
		"--scope", "compile", "--scope", "runtime", "--transitive")
	require.NoError(t, err)

	assert.Contains(t, out, "BUNDLE")
	assert.Contains(t, out, "util")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "4/6 (66.7%)")

	xml := testutil.ReadFile(t, filepath.Join(shop.Root, "app", "build", "coverage.xml"))
	assert.Contains(t, xml, `<group name="app">`)
	assert.Contains(t, xml, `<group name="core">`)
	assert.Contains(t, xml, `<group name="util">`)
}

func TestReport_DirectDependenciesOnly(t *testing.T) {
	setupHome(t)
	shop := testutil.NewShop(t)

	_, err := execute(t, "report", "app", "--graph", shop.Manifest)
	require.NoError(t, err)

	xml := testutil.ReadFile(t, filepath.Join(shop.Root, "app", "build", "coverage.xml"))
	assert.Contains(t, xml, `<group name="core">`)
	assert.NotContains(t, xml, `<group name="util">`)
}

func TestReport_Pretty(t *testing.T) {
	setupHome(t)
	shop := testutil.NewShop(t)
	out := filepath.Join(shop.Root, "reports", "coverage.xml")

	t.Run("deletes raw copy by default", func(t *testing.T) {
		_, err := execute(t, "report", "app", "--graph", shop.Manifest, "--output", out, "--pretty")
		require.NoError(t, err)

		xml := testutil.ReadFile(t, out)
		assert.Contains(t, xml, "<!DOCTYPE report")
		assert.False(t, testutil.Exists(t, filepath.Join(shop.Root, "reports", "raw.coverage.xml")))
	})

	t.Run("keeps raw copy", func(t *testing.T) {
		_, err := execute(t, "report", "app", "--graph", shop.Manifest, "--output", out,
			"--pretty", "--delete-raw=false")
		require.NoError(t, err)
		assert.True(t, testutil.Exists(t, filepath.Join(shop.Root, "reports", "raw.coverage.xml")))
	})
}

func TestReport_SkipConditions(t *testing.T) {
	setupHome(t)
	shop := testutil.NewShop(t)
	out := filepath.Join(shop.Root, "reports", "coverage.xml")

	t.Run("skip flag", func(t *testing.T) {
		_, err := execute(t, "report", "app", "--graph", shop.Manifest, "--output", out, "--skip")
		require.NoError(t, err)
		assert.False(t, testutil.Exists(t, out))
	})

	t.Run("missing cover profile", func(t *testing.T) {
		_, err := execute(t, "report", "app", "--graph", shop.Manifest, "--output", out,
			"--exec-file", filepath.Join(shop.Root, "none.out"))
		require.NoError(t, err)
		assert.False(t, testutil.Exists(t, out))
	})

	t.Run("skip from environment", func(t *testing.T) {
		t.Setenv("CROSSCOV_SKIP", "true")
		_, err := execute(t, "report", "app", "--graph", shop.Manifest, "--output", out)
		require.NoError(t, err)
		assert.False(t, testutil.Exists(t, out))
	})
}

func TestReport_Settings(t *testing.T) {
	home := setupHome(t)
	shop := testutil.NewShop(t)
	out := filepath.Join(shop.Root, "from-config.xml")
	testutil.WriteFile(t, home, ".crosscov/config.yaml",
		"graph: "+shop.Manifest+"\nreport:\n  output: "+out+"\n  groupName: FromConfig\n")

	t.Run("config file", func(t *testing.T) {
		_, err := execute(t, "report", "app")
		require.NoError(t, err)
		assert.Contains(t, testutil.ReadFile(t, out), `<group name="FromConfig">`)
	})

	t.Run("env beats config", func(t *testing.T) {
		t.Setenv("CROSSCOV_GROUP_NAME", "FromEnv")
		_, err := execute(t, "report", "app")
		require.NoError(t, err)
		assert.Contains(t, testutil.ReadFile(t, out), `<group name="FromEnv">`)
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv("CROSSCOV_GROUP_NAME", "FromEnv")
		_, err := execute(t, "report", "app", "--group-name", "FromFlag")
		require.NoError(t, err)
		assert.Contains(t, testutil.ReadFile(t, out), `<group name="FromFlag">`)
	})
}

func TestReport_Errors(t *testing.T) {
	setupHome(t)
	shop := testutil.NewShop(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{
			name: "unknown module",
			args: []string{"report", "shipping", "--graph", shop.Manifest},
			code: oerrors.ExitNotFound,
		},
		{
			name: "missing manifest",
			args: []string{"report", "app", "--graph", filepath.Join(shop.Root, "none.yaml")},
			code: oerrors.ExitNotFound,
		},
		{
			name: "unknown scope",
			args: []string{"report", "app", "--graph", shop.Manifest, "--scope", "import"},
			code: oerrors.ExitValidationError,
		},
		{
			name: "unknown encoding",
			args: []string{"report", "app", "--graph", shop.Manifest, "--source-encoding", "klingon"},
			code: oerrors.ExitValidationError,
		},
		{
			name: "invalid pattern",
			args: []string{"report", "app", "--graph", shop.Manifest, "--include", "[a-"},
			code: oerrors.ExitValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			requireExitCode(t, err, tt.code)
		})
	}
}

func TestReport_AggregationFailureIsPrinted(t *testing.T) {
	setupHome(t)
	shop := testutil.NewShop(t)
	if os.Geteuid() == 0 {
		t.Skip("root can read unreadable files")
	}
	out := filepath.Join(shop.Root, "out", "coverage.xml")
	src := filepath.Join(shop.Root, "core", "greet.go")
	require.NoError(t, os.Chmod(src, 0o000))
	t.Cleanup(func() { _ = os.Chmod(src, 0o644) })

	_, err := execute(t, "report", "app", "--graph", shop.Manifest, "--output", out)
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, exitErr.Printed)
	assert.False(t, testutil.Exists(t, out))
}
