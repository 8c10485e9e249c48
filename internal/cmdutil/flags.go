// Package cmdutil provides shared command utilities for the report and graph
// commands. It centralizes flag group management and result output helpers.
package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crosscov/cli/internal/config"
	"github.com/crosscov/cli/internal/coverage"
	"github.com/crosscov/cli/internal/module"
)

// ResolveFlags holds flags that select which dependencies are followed
// (report, graph).
type ResolveFlags struct {
	Scopes     []string
	Transitive bool
}

// AddTo registers the resolve flags on the given cobra command.
func (f *ResolveFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.Scopes, "scope", nil,
		fmt.Sprintf("Dependency scope to follow (can be repeated, default: all of %v)", module.ScopeNames()))
	cmd.Flags().BoolVar(&f.Transitive, "transitive", false,
		"Follow dependencies of dependencies")
}

// Apply copies the flags given on the command line into o.
func (f *ResolveFlags) Apply(cmd *cobra.Command, o *config.Overrides) {
	if cmd.Flags().Changed("scope") {
		o.Scopes = &f.Scopes
	}
	if cmd.Flags().Changed("transitive") {
		o.Transitive = &f.Transitive
	}
}

// ReportFlags holds flags that control report generation (report).
type ReportFlags struct {
	Skip      bool
	ExecFile  string
	Output    string
	Encoding  string
	Includes  []string
	Excludes  []string
	Pretty    bool
	DeleteRaw bool
	GroupName string
}

// AddTo registers the report flags on the given cobra command.
func (f *ReportFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.Skip, "skip", false,
		"Skip report generation")
	cmd.Flags().StringVar(&f.ExecFile, "exec-file", "",
		"Cover profile (default: <build dir>/coverage.out)")
	cmd.Flags().StringVar(&f.Output, "output", "",
		"Report path (default: <build dir>/coverage.xml)")
	cmd.Flags().StringVar(&f.Encoding, "source-encoding", coverage.DefaultEncoding,
		"Encoding of source files and of the indented report")
	cmd.Flags().StringArrayVar(&f.Includes, "include", nil,
		"Glob of source files to include (can be repeated)")
	cmd.Flags().StringArrayVar(&f.Excludes, "exclude", nil,
		"Glob of source files to exclude (can be repeated)")
	cmd.Flags().BoolVar(&f.Pretty, "pretty", false,
		"Indent the report and add the JaCoCo DOCTYPE")
	cmd.Flags().BoolVar(&f.DeleteRaw, "delete-raw", true,
		"Delete the raw copy after --pretty succeeds")
	cmd.Flags().StringVar(&f.GroupName, "group-name", "",
		"Name of the top-level report group (default: XML)")
}

// Apply copies the flags given on the command line into o.
func (f *ReportFlags) Apply(cmd *cobra.Command, o *config.Overrides) {
	changed := cmd.Flags().Changed
	if changed("skip") {
		o.Skip = &f.Skip
	}
	if changed("exec-file") {
		o.ExecFile = &f.ExecFile
	}
	if changed("output") {
		o.Output = &f.Output
	}
	if changed("source-encoding") {
		o.SourceEncoding = &f.Encoding
	}
	if changed("include") {
		o.Includes = &f.Includes
	}
	if changed("exclude") {
		o.Excludes = &f.Excludes
	}
	if changed("pretty") {
		o.Pretty = &f.Pretty
	}
	if changed("delete-raw") {
		o.DeleteRaw = &f.DeleteRaw
	}
	if changed("group-name") {
		o.GroupName = &f.GroupName
	}
}
