package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/crosscov/cli/internal/config"
	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/output"
)

const configHeader = `# crosscov configuration.
# Every value can be overridden with a CROSSCOV_* environment variable or a flag.
`

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the crosscov configuration.

Writes a config file with every default value to the resolved config path:
  --config flag > CROSSCOV_CONFIG env > ~/.crosscov/config.yaml

Examples:
  # Initialize configuration
  crosscov config init

  # Overwrite existing configuration
  crosscov config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(force bool) error {
	path, err := config.ExpandPath(configPath.ConfigPath)
	if err != nil {
		return oerrors.NewExitError(oerrors.Wrapf(oerrors.ErrNotFound, err, "could not determine home directory"))
	}

	if _, err := os.Stat(path); err == nil && !force {
		return oerrors.NewExitError(oerrors.NewValidationError(
			"configuration already exists", path, "",
			"Use --force to overwrite existing configuration."))
	}

	data, err := renderDefaultConfig()
	if err != nil {
		return oerrors.NewExitError(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return oerrors.NewExitError(configWriteError(filepath.Dir(path), err))
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return oerrors.NewExitError(configWriteError(path, err))
	}

	output.Println(output.FormatCheckmark("Configuration initialized at " + path))
	output.Println("Validate with: crosscov config vet")
	return nil
}

func configWriteError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return oerrors.NewPermissionError(err.Error(), map[string]string{"path": path},
			"Pass a writable location with --config or CROSSCOV_CONFIG")
	}
	return fmt.Errorf("writing configuration: %w", err)
}

func renderDefaultConfig() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config.DefaultConfig()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
