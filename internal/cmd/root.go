// Package cmd provides CLI command implementations.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/crosscov/cli/internal/config"
	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/loader"
	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/output"
	"github.com/crosscov/cli/internal/version"
)

var (
	// Global flags
	configFlag     string
	graphFlag      string
	verboseFlag    bool
	timestampsFlag bool

	// Loaded during PersistentPreRunE
	loadedConfig *config.Config
	configPath   config.ResolveConfigPathResult
	configErr    error
)

// NewRootCmd creates the root command for the crosscov CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crosscov",
		Short: "Cross-module coverage reports",
		Long: `crosscov aggregates Go coverage of a module and the modules it depends on
into a single JaCoCo XML report.

The module graph is read from a manifest (crosscov.yaml by default) that
lists every module of the build and its declared dependencies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: CROSSCOV_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&graphFlag, "graph", "", "Path to module graph manifest (env: CROSSCOV_GRAPH)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewReportCmd())
	rootCmd.AddCommand(NewGraphCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals loads configuration and sets up logging. A broken config
// file does not fail here so that commands which repair it still work.
func initializeGlobals(cmd *cobra.Command) error {
	pathResult, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return oerrors.NewExitError(oerrors.Wrapf(oerrors.ErrNotFound, err, "resolving config path"))
	}
	configPath = pathResult
	configErr = nil

	cfg, err := config.NewLoader().Load(pathResult.ConfigPath)
	switch {
	case err != nil:
		configErr = oerrors.Wrapf(oerrors.ErrValidation, err, "loading %s", pathResult.ConfigPath)
		cfg = &config.Config{}
	default:
		configErr = config.Validate(cfg, pathResult.ConfigPath)
	}
	loadedConfig = cfg

	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	output.Debug("initializing CLI",
		"version", version.Get().Version,
		"config", pathResult.ConfigPath,
		"config_source", pathResult.Source,
	)
	if configErr != nil {
		output.Debug("config load error", "error", configErr)
	}
	return nil
}

// resolveSettings merges command flags with env, config and defaults.
// Global flags are added to o when set on the command line.
func resolveSettings(cmd *cobra.Command, o config.Overrides) (config.Settings, error) {
	if configErr != nil {
		return config.Settings{}, configErr
	}
	if cmd.Flags().Changed("graph") {
		o.Graph = &graphFlag
	}
	if cmd.Flags().Changed("timestamps") {
		o.Timestamps = &timestampsFlag
	}

	settings, values := config.Resolve(loadedConfig, o)
	config.LogResolvedValues(values)
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// selectRoot picks the module named by args, or the module whose directory
// holds the working directory.
func selectRoot(reg *module.Registry, args []string, graphPath string) (module.Ref, error) {
	if len(args) > 0 {
		ref, err := reg.Find(args[0])
		if err != nil {
			return module.Ref{}, oerrors.NewNotFoundError(err.Error(), graphPath,
				"Run 'crosscov graph' to list the modules of the build")
		}
		return ref, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return module.Ref{}, err
	}
	if ref, ok := reg.FindContaining(cwd); ok {
		return ref, nil
	}
	return module.Ref{}, oerrors.NewNotFoundError("no module in "+cwd, graphPath,
		"Pass the module as an argument or run from its directory")
}

// loadGraph reads the manifest named by the settings.
func loadGraph(settings config.Settings) (*module.Registry, error) {
	path, err := config.ExpandPath(settings.Graph)
	if err != nil {
		return nil, err
	}
	return loader.Load(path)
}

// tableStyle uses borders only when stdout is a terminal.
func tableStyle() output.TableStyle {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return output.DefaultTableStyle()
	}
	return output.PlainTableStyle()
}
