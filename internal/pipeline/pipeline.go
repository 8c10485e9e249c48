package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/crosscov/cli/internal/coverage"
	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/output"
	"github.com/crosscov/cli/internal/report"
	"github.com/crosscov/cli/internal/resolver"
)

// pipeline implements the Pipeline interface over a module graph.
type pipeline struct {
	resolver *resolver.Resolver
}

// NewPipeline creates a Pipeline resolving dependencies over graph.
func NewPipeline(graph module.Graph) Pipeline {
	return &pipeline{resolver: resolver.New(graph)}
}

// Run executes the pipeline and returns results.
//
// Phase sequence:
//  1. SKIP:      opts.Skip or missing execution data -> skipped Result
//  2. RESOLVE:   resolver.Closure() -> root followed by relevant modules
//  3. AGGREGATE: report.Builder over a temp file, renamed onto Output on success
//  4. REFORMAT:  report.Reformat() when Pretty; raw copy removed when DeleteRaw
func (p *pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	log := output.ModuleLogger(opts.Root.ArtifactID)

	// Phase 1: SKIP
	if opts.Skip {
		log.Debug("skipping report: skip is set")
		return &Result{Skipped: true, SkipReason: "skip is set", Output: opts.Output}, nil
	}
	if !coverage.ExecutionDataExists(opts.ExecFile) {
		log.Debug("skipping report: execution data not found", "path", opts.ExecFile)
		return &Result{
			Skipped:    true,
			SkipReason: fmt.Sprintf("execution data %s not found", opts.ExecFile),
			Output:     opts.Output,
		}, nil
	}

	exec, err := coverage.LoadExecutionData(opts.ExecFile)
	if err != nil {
		return nil, err
	}

	// Phase 2: RESOLVE
	modules := p.resolver.Closure(opts.Root, resolver.Options{
		Scopes:     opts.Scopes,
		Transitive: opts.Transitive,
	})

	// Phase 3: AGGREGATE
	unitOpts := coverage.Options{
		Includes: opts.Includes,
		Excludes: opts.Excludes,
		Encoding: opts.SourceEncoding,
	}
	var builder *report.Builder
	err = report.WriteRaw(opts.Output, func(w io.Writer) error {
		b, err := report.NewReport(exec, w, report.Options{
			Name:      opts.Root.ArtifactID,
			GroupName: opts.GroupName,
		})
		if err != nil {
			return &AggregationError{Err: err}
		}
		builder = b

		for _, ref := range modules {
			if _, err := b.AddModule(ctx, ref, unitOpts); err != nil {
				return &AggregationError{Module: ref.Key(), Err: err}
			}
		}
		if err := b.Finish(); err != nil {
			return &AggregationError{Err: err}
		}
		return nil
	})
	if err != nil {
		var aggErr *AggregationError
		if !errors.As(err, &aggErr) {
			err = &AggregationError{Err: err}
		}
		if builder != nil {
			builder.Abort()
		}
		return nil, err
	}

	result := &Result{
		Output:   opts.Output,
		Modules:  modules,
		Bundles:  builder.Summaries(),
		Counters: builder.Counters(),
	}

	// Phase 4: REFORMAT
	if opts.Pretty {
		rawPath, err := report.Reformat(opts.Output, opts.SourceEncoding)
		if err != nil {
			return nil, &ReformatError{RawPath: rawPath, Err: err}
		}
		if opts.DeleteRaw {
			if err := report.Cleanup(rawPath); err != nil {
				return nil, err
			}
		} else {
			result.RawPath = rawPath
		}
	}

	log.Debug("report written",
		"path", opts.Output,
		"bundles", len(result.Bundles),
		"pretty", opts.Pretty,
	)
	return result, nil
}
