package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for crosscov configuration.
const envPrefix = "CROSSCOV"

// EnvConfig overrides the config file path.
const EnvConfig = envPrefix + "_CONFIG"

// Config keys.
const (
	KeyGraph          = "graph"
	KeySkip           = "report.skip"
	KeyExecFile       = "report.execFile"
	KeyOutput         = "report.output"
	KeySourceEncoding = "report.sourceEncoding"
	KeyIncludes       = "report.includes"
	KeyExcludes       = "report.excludes"
	KeyScopes         = "report.scopes"
	KeyTransitive     = "report.transitive"
	KeyPretty         = "report.pretty"
	KeyDeleteRaw      = "report.deleteRaw"
	KeyGroupName      = "report.groupName"
	KeyLogTimestamps  = "log.timestamps"
)

// envBindings maps config keys to environment variables.
var envBindings = []struct {
	key string
	env string
}{
	{KeyGraph, "CROSSCOV_GRAPH"},
	{KeySkip, "CROSSCOV_SKIP"},
	{KeyExecFile, "CROSSCOV_EXEC_FILE"},
	{KeyOutput, "CROSSCOV_OUTPUT"},
	{KeySourceEncoding, "CROSSCOV_SOURCE_ENCODING"},
	{KeyIncludes, "CROSSCOV_INCLUDES"},
	{KeyExcludes, "CROSSCOV_EXCLUDES"},
	{KeyScopes, "CROSSCOV_SCOPES"},
	{KeyTransitive, "CROSSCOV_TRANSITIVE"},
	{KeyPretty, "CROSSCOV_PRETTY"},
	{KeyDeleteRaw, "CROSSCOV_DELETE_RAW"},
	{KeyGroupName, "CROSSCOV_GROUP_NAME"},
	{KeyLogTimestamps, "CROSSCOV_LOG_TIMESTAMPS"},
}

// EnvVar returns the environment variable bound to key.
func EnvVar(key string) string {
	for _, b := range envBindings {
		if b.key == key {
			return b.env
		}
	}
	return ""
}

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range envBindings {
		_ = v.BindEnv(b.key, b.env)
	}

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// Environment variables take precedence over file values. A missing file
// is not an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.sources = make(map[string]ConfigSource)
	for _, b := range envBindings {
		if _, ok := os.LookupEnv(b.env); ok {
			cfg.sources[b.key] = SourceEnv
		} else if l.v.InConfig(b.key) {
			cfg.sources[b.key] = SourceConfig
		}
	}

	return &cfg, nil
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
