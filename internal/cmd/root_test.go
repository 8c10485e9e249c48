package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscov/cli/internal/testutil"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "crosscov", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"config", "graph", "timestamps"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.NotNil(t, cmd.PersistentFlags().ShorthandLookup("v"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"report", "graph", "config", "version"}, names)
}

func TestSelectRoot(t *testing.T) {
	setupHome(t)
	shop := testutil.NewShop(t)

	t.Run("by artifactId", func(t *testing.T) {
		out, err := execute(t, "graph", "core", "--graph", shop.Manifest)
		require.NoError(t, err)
		assert.Contains(t, out, "com.example:core:1.0.0")
	})

	t.Run("by working directory", func(t *testing.T) {
		t.Chdir(filepath.Join(shop.Root, "util"))
		out, err := execute(t, "graph", "--graph", shop.Manifest)
		require.NoError(t, err)
		assert.Contains(t, out, "com.example:util:1.0.0")
	})

	t.Run("from a module subdirectory", func(t *testing.T) {
		sub := filepath.Join(shop.Root, "core", "internal", "sub")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		t.Chdir(sub)
		out, err := execute(t, "graph", "--graph", shop.Manifest)
		require.NoError(t, err)
		assert.Contains(t, out, "com.example:core:1.0.0")
	})

	t.Run("through a symlinked path", func(t *testing.T) {
		link := filepath.Join(t.TempDir(), "shop")
		if err := os.Symlink(shop.Root, link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		t.Chdir(filepath.Join(link, "util"))
		out, err := execute(t, "graph", "--graph", shop.Manifest)
		require.NoError(t, err)
		assert.Contains(t, out, "com.example:util:1.0.0")
	})

	t.Run("no module in working directory", func(t *testing.T) {
		t.Chdir(shop.Root)
		_, err := execute(t, "graph", "--graph", shop.Manifest)
		requireExitCode(t, err, 5)
	})
}

func TestBrokenConfigFailsCommandsThatNeedIt(t *testing.T) {
	home := setupHome(t)
	shop := testutil.NewShop(t)
	testutil.WriteFile(t, home, ".crosscov/config.yaml", "report:\n  scopes: [import]\n")

	_, err := execute(t, "graph", "app", "--graph", shop.Manifest)
	requireExitCode(t, err, 2)

	_, err = execute(t, "version")
	assert.NoError(t, err)
}
