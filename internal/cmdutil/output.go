package cmdutil

import (
	"errors"

	"github.com/crosscov/cli/internal/coverage"
	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/output"
	"github.com/crosscov/cli/internal/pipeline"
)

// PrintReportError prints a pipeline failure in a user-friendly format.
func PrintReportError(err error) {
	var detail *oerrors.DetailError
	if !errors.As(reportDetail(err), &detail) {
		output.Error("report failed", "error", err)
		return
	}

	keyvals := make([]interface{}, 0, 2*len(detail.Context)+2)
	for _, k := range detail.ContextKeys() {
		keyvals = append(keyvals, k, detail.Context[k])
	}
	keyvals = append(keyvals, "error", detail.Message)
	output.Error(detail.Type, keyvals...)
	if detail.Hint != "" {
		output.Info(detail.Hint)
	}
}

// reportDetail maps a pipeline failure to a DetailError. A reformat failure
// keeps its raw path; a detail raised below an aggregation failure, such
// as an unwritable output directory, is reported as is.
func reportDetail(err error) error {
	var fmtErr *pipeline.ReformatError
	if errors.As(err, &fmtErr) {
		return oerrors.NewReformatError(fmtErr.RawPath, fmtErr.Err)
	}
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		return detail
	}
	var aggErr *pipeline.AggregationError
	if errors.As(err, &aggErr) {
		return oerrors.NewAggregationError(string(aggErr.Module), aggErr.Err)
	}
	return err
}

// CoverageRows returns one table row per bundle, plus a total row when the
// report holds more than one bundle.
func CoverageRows(result *pipeline.Result) []output.CoverageRow {
	rows := make([]output.CoverageRow, 0, len(result.Bundles)+1)
	for _, b := range result.Bundles {
		rows = append(rows, coverageRow(b.Name, b.Counters))
	}
	if len(result.Bundles) > 1 {
		rows = append(rows, coverageRow("total", result.Counters))
	}
	return rows
}

func coverageRow(name string, c coverage.Counters) output.CoverageRow {
	return output.CoverageRow{
		Bundle:        name,
		Classes:       c.Class.Total(),
		StmtMissed:    c.Instruction.Missed,
		StmtCovered:   c.Instruction.Covered,
		LineMissed:    c.Line.Missed,
		LineCovered:   c.Line.Covered,
		MethodMissed:  c.Method.Missed,
		MethodCovered: c.Method.Covered,
	}
}
