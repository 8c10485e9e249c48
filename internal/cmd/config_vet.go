package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/crosscov/cli/internal/config"
	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the crosscov configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML
  3. Encodings, include/exclude patterns and scopes are valid

The config path is resolved using precedence:
  --config flag > CROSSCOV_CONFIG env > ~/.crosscov/config.yaml

Examples:
  # Validate default configuration
  crosscov config vet

  # Validate custom config path
  crosscov config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigVet()
		},
	}
}

func runConfigVet() error {
	path, err := config.ExpandPath(configPath.ConfigPath)
	if err != nil {
		return oerrors.NewExitError(oerrors.Wrapf(oerrors.ErrNotFound, err, "could not resolve config path"))
	}

	output.Debug("validating config",
		"path", path,
		"source", configPath.Source,
	)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return oerrors.NewExitError(oerrors.NewNotFoundError(
			"configuration file not found", path,
			"Run 'crosscov config init' to create default configuration"))
	}

	if configErr != nil {
		return oerrors.NewExitError(configErr)
	}

	output.Println(output.FormatCheckmark("Configuration is valid: " + path))
	return nil
}
