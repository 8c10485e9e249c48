package config

import (
	"fmt"
	"os"

	"github.com/crosscov/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records one configuration value and its provenance.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// Overrides carries command-line flag values. A nil field means the flag
// was not given.
type Overrides struct {
	Graph          *string
	Skip           *bool
	ExecFile       *string
	Output         *string
	SourceEncoding *string
	Includes       *[]string
	Excludes       *[]string
	Scopes         *[]string
	Transitive     *bool
	Pretty         *bool
	DeleteRaw      *bool
	GroupName      *string
	Timestamps     *bool
}

// Settings are the effective values after resolution.
type Settings struct {
	Graph          string
	Skip           bool
	ExecFile       string
	Output         string
	SourceEncoding string
	Includes       []string
	Excludes       []string
	Scopes         []string
	Transitive     bool
	Pretty         bool
	DeleteRaw      bool
	GroupName      string
	Timestamps     bool
}

// Resolve computes the effective settings using precedence:
// (1) flag, (2) CROSSCOV_* env, (3) config file, (4) built-in default.
// Env and config values are already merged in cfg; cfg.Source tells them apart.
func Resolve(cfg *Config, o Overrides) (Settings, []ResolvedValue) {
	if cfg == nil {
		cfg = &Config{}
	}
	def := DefaultConfig()
	r := &resolution{cfg: cfg}

	deleteRaw := *def.Report.DeleteRaw
	if cfg.Report.DeleteRaw != nil {
		deleteRaw = *cfg.Report.DeleteRaw
	}
	timestamps := *def.Log.Timestamps
	if cfg.Log.Timestamps != nil {
		timestamps = *cfg.Log.Timestamps
	}

	s := Settings{
		Graph:          resolveValue(r, KeyGraph, o.Graph, cfg.Graph, def.Graph),
		Skip:           resolveValue(r, KeySkip, o.Skip, cfg.Report.Skip, false),
		ExecFile:       resolveValue(r, KeyExecFile, o.ExecFile, cfg.Report.ExecFile, ""),
		Output:         resolveValue(r, KeyOutput, o.Output, cfg.Report.Output, ""),
		SourceEncoding: resolveValue(r, KeySourceEncoding, o.SourceEncoding, cfg.Report.SourceEncoding, def.Report.SourceEncoding),
		Includes:       resolveValue(r, KeyIncludes, o.Includes, cfg.Report.Includes, nil),
		Excludes:       resolveValue(r, KeyExcludes, o.Excludes, cfg.Report.Excludes, nil),
		Scopes:         resolveValue(r, KeyScopes, o.Scopes, cfg.Report.Scopes, nil),
		Transitive:     resolveValue(r, KeyTransitive, o.Transitive, cfg.Report.Transitive, false),
		Pretty:         resolveValue(r, KeyPretty, o.Pretty, cfg.Report.Pretty, false),
		DeleteRaw:      resolveValue(r, KeyDeleteRaw, o.DeleteRaw, deleteRaw, true),
		GroupName:      resolveValue(r, KeyGroupName, o.GroupName, cfg.Report.GroupName, def.Report.GroupName),
		Timestamps:     resolveValue(r, KeyLogTimestamps, o.Timestamps, timestamps, true),
	}
	return s, r.values
}

type resolution struct {
	cfg    *Config
	values []ResolvedValue
}

// resolveValue picks flag, then env/config, then def, recording shadowed values.
func resolveValue[T any](r *resolution, key string, flag *T, cfgValue, def T) T {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}
	cfgSource := r.cfg.Source(key)

	var value T
	switch {
	case flag != nil:
		value = *flag
		rv.Source = SourceFlag
		if cfgSource != SourceDefault {
			rv.Shadowed[cfgSource] = cfgValue
		}
	case cfgSource != SourceDefault:
		value = cfgValue
		rv.Source = cfgSource
	default:
		value = def
		rv.Source = SourceDefault
	}

	rv.Value = value
	r.values = append(r.values, rv)
	return value
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CROSSCOV_CONFIG env, (3) ~/.crosscov/config.yaml default
func ResolveConfigPath(flagValue string) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case flagValue != "":
		result.ConfigPath = flagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", fmt.Sprint(v.Value),
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", fmt.Sprint(shadowed),
			)
		}
	}
}
