// Package pipeline orchestrates a report run: skip checks, dependency
// resolution, aggregation, raw output and the optional reformat.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/crosscov/cli/internal/coverage"
	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/report"
)

// Default file names under the root module's build directory.
const (
	DefaultExecFile = "coverage.out"
	DefaultOutput   = "coverage.xml"
)

// Pipeline produces cross-module coverage reports.
type Pipeline interface {
	// Run executes the pipeline for opts.Root.
	//
	// A skipped run (skip flag, missing execution data) returns a Result with
	// Skipped set and a nil error. Aggregation and reformat failures are fatal.
	Run(ctx context.Context, opts Options) (*Result, error)
}

// Options configures a report run.
type Options struct {
	// Root is the module under report. Required.
	Root module.Ref

	// Skip disables the run entirely.
	Skip bool

	// ExecFile is the cover profile. Defaults to <root build dir>/coverage.out.
	ExecFile string

	// Output is the report path. Defaults to <root build dir>/coverage.xml.
	Output string

	// SourceEncoding is the encoding of source files and of the reformatted
	// report. Defaults to UTF-8.
	SourceEncoding string

	// Includes and Excludes select units in every module.
	Includes []string
	Excludes []string

	// Scopes are the relevant dependency scopes. nil means every scope.
	Scopes module.ScopeSet

	// Transitive follows dependencies of dependencies.
	Transitive bool

	// Pretty reformats the raw report.
	Pretty bool

	// DeleteRaw removes the raw copy after a successful reformat.
	DeleteRaw bool

	// GroupName names the top-level report group. Defaults to XML.
	GroupName string
}

// Validate checks that required options are set.
func (o Options) Validate() error {
	if o.Root.ArtifactID == "" {
		return errors.New("root module is required")
	}
	return nil
}

// withDefaults returns a copy of o with defaults applied.
func (o Options) withDefaults() Options {
	buildDir := o.Root.DefaultBuildDir()
	if o.ExecFile == "" {
		o.ExecFile = filepath.Join(buildDir, DefaultExecFile)
	}
	if o.Output == "" {
		o.Output = filepath.Join(buildDir, DefaultOutput)
	}
	if o.SourceEncoding == "" {
		o.SourceEncoding = coverage.DefaultEncoding
	}
	if o.Scopes == nil {
		o.Scopes = module.NewScopeSet(module.AllScopes()...)
	}
	if o.GroupName == "" {
		o.GroupName = report.DefaultGroupName
	}
	return o
}

// Result is the outcome of a run.
type Result struct {
	// Skipped is true when no report was produced.
	Skipped bool

	// SkipReason explains a skipped run.
	SkipReason string

	// Output is the report path.
	Output string

	// RawPath is the kept raw copy after a reformat with DeleteRaw unset.
	RawPath string

	// Modules are the reported modules, root first.
	Modules []module.Ref

	// Bundles are the per-module summaries in report order.
	Bundles []coverage.BundleSummary

	// Counters are the report totals.
	Counters coverage.Counters
}
