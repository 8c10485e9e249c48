package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/crosscov/cli/internal/cmdutil"
	"github.com/crosscov/cli/internal/config"
	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/output"
	"github.com/crosscov/cli/internal/resolver"
)

// graphFlags holds the graph command flags.
type graphFlags struct {
	cmdutil.ResolveFlags
	format string
	all    bool
}

// graphEntry is one module in structured graph output.
type graphEntry struct {
	GroupID    string `json:"groupId" yaml:"groupId"`
	ArtifactID string `json:"artifactId" yaml:"artifactId"`
	Version    string `json:"version" yaml:"version"`
	ImportPath string `json:"importPath" yaml:"importPath"`
	Dir        string `json:"dir" yaml:"dir"`
}

// NewGraphCmd creates the graph command.
func NewGraphCmd() *cobra.Command {
	f := &graphFlags{}

	cmd := &cobra.Command{
		Use:   "graph [module]",
		Short: "Show the modules a report would include",
		Long: `Show the modules a report for the given module would include, the root
module first, using the same scope and transitivity settings as 'report'.

With --all, every module of the manifest is listed instead.

Examples:
  # Modules in the report of app
  crosscov graph app --transitive

  # Every module of the build as JSON
  crosscov graph --all -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.format, "output", "o", "table",
		fmt.Sprintf("Output format: %v", output.ValidFormats()))
	f.ResolveFlags.AddTo(cmd)
	cmd.Flags().BoolVar(&f.all, "all", false,
		"List every module of the manifest")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string, f *graphFlags) error {
	format, ok := output.ParseOutputFormat(f.format)
	if !ok {
		return oerrors.NewExitError(oerrors.NewValidationError(
			fmt.Sprintf("unknown output format %q", f.format), "", "output",
			fmt.Sprintf("Use one of %v", output.ValidFormats())))
	}

	var o config.Overrides
	f.ResolveFlags.Apply(cmd, &o)
	settings, err := resolveSettings(cmd, o)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	reg, err := loadGraph(settings)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	var refs []module.Ref
	if f.all {
		refs = reg.Modules()
	} else {
		root, err := selectRoot(reg, args, settings.Graph)
		if err != nil {
			return oerrors.NewExitError(err)
		}
		scopes, err := module.ParseScopeSet(settings.Scopes)
		if err != nil {
			return oerrors.NewExitError(oerrors.Wrapf(oerrors.ErrValidation, err, "parsing scopes"))
		}
		refs = resolver.New(reg).Closure(root, resolver.Options{
			Scopes:     scopes,
			Transitive: settings.Transitive,
		})
	}

	return writeGraph(cmd.OutOrStdout(), refs, format)
}

func writeGraph(w io.Writer, refs []module.Ref, format output.OutputFormat) error {
	switch format {
	case output.FormatYAML, output.FormatJSON:
		entries := make([]graphEntry, len(refs))
		for i, r := range refs {
			entries[i] = graphEntry{
				GroupID:    r.GroupID,
				ArtifactID: r.ArtifactID,
				Version:    r.Version,
				ImportPath: r.ImportPath,
				Dir:        r.Dir,
			}
		}
		if format == output.FormatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		rows := make([]output.ModuleRow, len(refs))
		for i, r := range refs {
			rows[i] = output.ModuleRow{Key: string(r.Key()), ImportPath: r.ImportPath, Dir: r.Dir}
		}
		_, err := fmt.Fprintln(w, output.RenderModuleTable(rows, tableStyle()))
		return err
	}
}
