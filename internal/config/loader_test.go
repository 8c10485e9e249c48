package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		content := `
graph: build/graph.yaml
report:
  execFile: /tmp/cover.out
  sourceEncoding: ISO-8859-1
  includes: ["pkg/**"]
  scopes: [compile, runtime]
  transitive: true
  deleteRaw: false
log:
  timestamps: false
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		cfg, err := NewLoader().Load(configFile)
		require.NoError(t, err)

		assert.Equal(t, "build/graph.yaml", cfg.Graph)
		assert.Equal(t, "/tmp/cover.out", cfg.Report.ExecFile)
		assert.Equal(t, "ISO-8859-1", cfg.Report.SourceEncoding)
		assert.Equal(t, []string{"pkg/**"}, cfg.Report.Includes)
		assert.Equal(t, []string{"compile", "runtime"}, cfg.Report.Scopes)
		assert.True(t, cfg.Report.Transitive)
		require.NotNil(t, cfg.Report.DeleteRaw)
		assert.False(t, *cfg.Report.DeleteRaw)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)

		assert.Equal(t, SourceConfig, cfg.Source(KeyExecFile))
		assert.Equal(t, SourceDefault, cfg.Source(KeyOutput))
	})

	t.Run("returns empty config for missing file", func(t *testing.T) {
		cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
		require.NoError(t, err)
		assert.Empty(t, cfg.Graph)
		assert.Nil(t, cfg.Report.DeleteRaw)
		assert.Equal(t, SourceDefault, cfg.Source(KeyGraph))
	})

	t.Run("loads from environment variables", func(t *testing.T) {
		t.Setenv("CROSSCOV_GRAPH", "env-graph.yaml")
		t.Setenv("CROSSCOV_PRETTY", "true")
		t.Setenv("CROSSCOV_SCOPES", "compile,test")

		cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "env-graph.yaml", cfg.Graph)
		assert.True(t, cfg.Report.Pretty)
		assert.Equal(t, []string{"compile", "test"}, cfg.Report.Scopes)
		assert.Equal(t, SourceEnv, cfg.Source(KeyGraph))
	})

	t.Run("env overrides file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("report:\n  groupName: File\n"), 0o644))
		t.Setenv("CROSSCOV_GROUP_NAME", "Env")

		cfg, err := NewLoader().Load(configFile)
		require.NoError(t, err)
		assert.Equal(t, "Env", cfg.Report.GroupName)
		assert.Equal(t, SourceEnv, cfg.Source(KeyGroupName))
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("report: [\n"), 0o644))

		_, err := NewLoader().Load(configFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})
}

func TestConfigFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	exists, err := ConfigFileExists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(path, []byte("graph: x\n"), 0o644))
	exists, err = ConfigFileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "CROSSCOV_EXEC_FILE", EnvVar(KeyExecFile))
	assert.Equal(t, "", EnvVar("unknown"))
}
