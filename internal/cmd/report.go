package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crosscov/cli/internal/cmdutil"
	"github.com/crosscov/cli/internal/config"
	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/output"
	"github.com/crosscov/cli/internal/pipeline"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	var (
		rf cmdutil.ReportFlags
		sf cmdutil.ResolveFlags
	)

	cmd := &cobra.Command{
		Use:   "report [module]",
		Short: "Write a cross-module coverage report",
		Long: `Write a JaCoCo XML coverage report for a module and its dependencies.

The cover profile of the module (written by 'go test -coverprofile') is
applied to the sources of the module and of every module it depends on in the
selected scopes. Each module becomes one bundle in the report, the root
module first.

Arguments:
  module    artifactId or groupId:artifactId:version
            (default: the module in the current directory)

Examples:
  # Report app and its direct compile and runtime dependencies
  crosscov report app --scope compile --scope runtime

  # Follow dependencies of dependencies and indent the output
  crosscov report app --transitive --pretty

  # Use a profile from another location
  crosscov report com.example:app:1.0.0 --exec-file /tmp/cover.out`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, &rf, &sf)
		},
	}

	rf.AddTo(cmd)
	sf.AddTo(cmd)

	return cmd
}

func runReport(cmd *cobra.Command, args []string, rf *cmdutil.ReportFlags, sf *cmdutil.ResolveFlags) error {
	var o config.Overrides
	rf.Apply(cmd, &o)
	sf.Apply(cmd, &o)
	settings, err := resolveSettings(cmd, o)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	if settings.Skip {
		output.Info("report skipped", "reason", "skip is set")
		return nil
	}

	reg, err := loadGraph(settings)
	if err != nil {
		return oerrors.NewExitError(err)
	}
	root, err := selectRoot(reg, args, settings.Graph)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	scopes, err := module.ParseScopeSet(settings.Scopes)
	if err != nil {
		return oerrors.NewExitError(oerrors.Wrapf(oerrors.ErrValidation, err, "parsing scopes"))
	}

	opts := pipeline.Options{
		Root:           root,
		ExecFile:       settings.ExecFile,
		Output:         settings.Output,
		SourceEncoding: settings.SourceEncoding,
		Includes:       settings.Includes,
		Excludes:       settings.Excludes,
		Scopes:         scopes,
		Transitive:     settings.Transitive,
		Pretty:         settings.Pretty,
		DeleteRaw:      settings.DeleteRaw,
		GroupName:      settings.GroupName,
	}

	output.Debug("running report",
		"module", root.Key(),
		"scopes", scopes.Names(),
		"transitive", opts.Transitive,
		"pretty", opts.Pretty,
	)

	result, err := pipeline.NewPipeline(reg).Run(cmd.Context(), opts)
	if err != nil {
		cmdutil.PrintReportError(err)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}

	modLog := output.ModuleLogger(root.ArtifactID)
	if result.Skipped {
		modLog.Info("report skipped", "reason", result.SkipReason)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.RenderCoverageTable(cmdutil.CoverageRows(result), tableStyle()))

	modLog.Info(output.FormatCheckmark("report written"), "path", result.Output, "bundles", len(result.Bundles))
	if result.RawPath != "" {
		modLog.Info("raw report kept", "path", result.RawPath)
	}
	return nil
}
