// Package report aggregates module coverage into one report and persists it.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/crosscov/cli/internal/coverage"
	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/output"
)

// DefaultGroupName names the top-level group when none is configured.
const DefaultGroupName = "XML"

var (
	// ErrReportClosed is returned by AddModule and Finish after Finish.
	ErrReportClosed = errors.New("report is closed")

	// ErrReportAborted is returned by every call after a failed AddModule or Abort.
	ErrReportAborted = errors.New("report was aborted")
)

type state int

const (
	stateOpen state = iota
	stateClosed
	stateAborted
)

// Options configure a report.
type Options struct {
	// Name is the report name, usually the root module's artifactId.
	Name string

	// GroupName names the top-level group. Defaults to DefaultGroupName.
	GroupName string
}

// Builder accumulates one bundle per module into a single top-level group.
// Bundles appear in the order AddModule is called.
//
// States: Open -> Closed via Finish; Open -> Aborted via Abort or a failed
// AddModule. Only Open accepts modules.
type Builder struct {
	exec      *coverage.ExecutionData
	report    *coverage.XMLVisitor
	group     *coverage.GroupVisitor
	state     state
	summaries []coverage.BundleSummary
}

// NewReport opens the report on w and starts the top-level group.
func NewReport(exec *coverage.ExecutionData, w io.Writer, opts Options) (*Builder, error) {
	if opts.GroupName == "" {
		opts.GroupName = DefaultGroupName
	}

	report, err := coverage.NewXMLVisitor(w, opts.Name)
	if err != nil {
		return nil, fmt.Errorf("starting report: %w", err)
	}
	group, err := report.VisitGroup(opts.GroupName)
	if err != nil {
		return nil, fmt.Errorf("starting group %s: %w", opts.GroupName, err)
	}

	return &Builder{exec: exec, report: report, group: group}, nil
}

// AddModule analyzes ref and appends it as a bundle. A failure aborts the
// builder; its partial output must be discarded.
func (b *Builder) AddModule(ctx context.Context, ref module.Ref, opts coverage.Options) (coverage.BundleSummary, error) {
	if err := b.check(); err != nil {
		return coverage.BundleSummary{}, err
	}

	bundle, err := coverage.Analyze(ctx, b.exec, ref, opts)
	if err != nil {
		b.state = stateAborted
		return coverage.BundleSummary{}, fmt.Errorf("analyzing %s: %w", ref.Key(), err)
	}
	if err := b.group.VisitBundle(bundle); err != nil {
		b.state = stateAborted
		return coverage.BundleSummary{}, fmt.Errorf("writing bundle %s: %w", bundle.Name, err)
	}

	summary := bundle.Summary()
	b.summaries = append(b.summaries, summary)
	output.ModuleLogger(ref.ArtifactID).Debug("bundle added",
		"statements", summary.Counters.Instruction.Total(),
		"covered", summary.Counters.Instruction.Covered,
	)
	return summary, nil
}

// Finish closes the group and the report and flushes the writer.
func (b *Builder) Finish() error {
	if err := b.check(); err != nil {
		return err
	}
	b.state = stateClosed

	if err := b.group.End(); err != nil {
		return fmt.Errorf("closing group: %w", err)
	}
	if err := b.report.End(); err != nil {
		return fmt.Errorf("closing report: %w", err)
	}
	return nil
}

// Abort marks the builder failed. It is a no-op after Finish.
func (b *Builder) Abort() {
	if b.state == stateOpen {
		b.state = stateAborted
	}
}

// Summaries returns the summaries of every bundle added so far.
func (b *Builder) Summaries() []coverage.BundleSummary {
	return b.summaries
}

// Counters returns the report totals. Only complete after Finish.
func (b *Builder) Counters() coverage.Counters {
	return b.report.Counters()
}

func (b *Builder) check() error {
	switch b.state {
	case stateClosed:
		return ErrReportClosed
	case stateAborted:
		return ErrReportAborted
	default:
		return nil
	}
}
