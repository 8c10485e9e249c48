// Package config provides configuration loading and management.
package config

import (
	"github.com/crosscov/cli/internal/coverage"
	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/report"
)

// DefaultGraphFile is the module graph manifest looked up in the working directory.
const DefaultGraphFile = "crosscov.yaml"

// ReportConfig contains report settings.
type ReportConfig struct {
	// Skip disables report generation.
	// Env: CROSSCOV_SKIP, Default: false
	Skip bool `yaml:"skip,omitempty" mapstructure:"skip"`

	// ExecFile is the cover profile path.
	// Env: CROSSCOV_EXEC_FILE, Default: <root buildDir>/coverage.out
	ExecFile string `yaml:"execFile,omitempty" mapstructure:"execFile"`

	// Output is the report path.
	// Env: CROSSCOV_OUTPUT, Default: <root buildDir>/coverage.xml
	Output string `yaml:"output,omitempty" mapstructure:"output"`

	// SourceEncoding is the source file and report encoding.
	// Env: CROSSCOV_SOURCE_ENCODING, Default: UTF-8
	SourceEncoding string `yaml:"sourceEncoding,omitempty" mapstructure:"sourceEncoding"`

	// Includes select units by glob. Env: CROSSCOV_INCLUDES (comma separated)
	Includes []string `yaml:"includes,omitempty" mapstructure:"includes"`

	// Excludes drop selected units by glob. Env: CROSSCOV_EXCLUDES (comma separated)
	Excludes []string `yaml:"excludes,omitempty" mapstructure:"excludes"`

	// Scopes are the relevant dependency scopes. Empty means all.
	// Env: CROSSCOV_SCOPES (comma separated)
	Scopes []string `yaml:"scopes,omitempty" mapstructure:"scopes"`

	// Transitive follows dependencies of dependencies.
	// Env: CROSSCOV_TRANSITIVE, Default: false
	Transitive bool `yaml:"transitive,omitempty" mapstructure:"transitive"`

	// Pretty reformats the report.
	// Env: CROSSCOV_PRETTY, Default: false
	Pretty bool `yaml:"pretty,omitempty" mapstructure:"pretty"`

	// DeleteRaw removes the raw copy after reformatting.
	// Env: CROSSCOV_DELETE_RAW, Default: true
	DeleteRaw *bool `yaml:"deleteRaw,omitempty" mapstructure:"deleteRaw"`

	// GroupName names the top-level report group.
	// Env: CROSSCOV_GROUP_NAME, Default: XML
	GroupName string `yaml:"groupName,omitempty" mapstructure:"groupName"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Env: CROSSCOV_LOG_TIMESTAMPS, Default: true. Override with --timestamps.
	Timestamps *bool `yaml:"timestamps,omitempty" mapstructure:"timestamps"`
}

// Config represents the crosscov configuration file (~/.crosscov/config.yaml).
type Config struct {
	// Graph is the module graph manifest path.
	// Env: CROSSCOV_GRAPH, Default: crosscov.yaml
	Graph string `yaml:"graph,omitempty" mapstructure:"graph"`

	// Report contains report settings.
	Report ReportConfig `yaml:"report" mapstructure:"report"`

	// Log contains logging-related settings.
	Log LogConfig `yaml:"log" mapstructure:"log"`

	// sources records where each set key came from.
	sources map[string]ConfigSource
}

// Source returns where key was set, SourceDefault when unset.
func (c *Config) Source(key string) ConfigSource {
	if s, ok := c.sources[key]; ok {
		return s
	}
	return SourceDefault
}

// DefaultConfig returns a Config with all default values populated.
// Used by `crosscov config init` to generate the initial config file.
func DefaultConfig() *Config {
	deleteRaw := true
	timestamps := true
	return &Config{
		Graph: DefaultGraphFile,
		Report: ReportConfig{
			SourceEncoding: coverage.DefaultEncoding,
			Includes:       []string{coverage.DefaultInclude},
			Scopes:         module.ScopeNames(),
			DeleteRaw:      &deleteRaw,
			GroupName:      report.DefaultGroupName,
		},
		Log: LogConfig{Timestamps: &timestamps},
	}
}
