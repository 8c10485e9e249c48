package pipeline

import (
	"fmt"

	"github.com/crosscov/cli/internal/module"
)

// AggregationError indicates a module could not be added to the report.
// No report is left at the output path.
type AggregationError struct {
	// Module is the module being aggregated, empty when the report itself failed.
	Module module.Key

	// Err is the underlying error.
	Err error
}

func (e *AggregationError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("aggregating report: %v", e.Err)
	}
	return fmt.Sprintf("aggregating module %s: %v", e.Module, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

// ReformatError indicates the raw report could not be reformatted.
// The raw copy is preserved at RawPath.
type ReformatError struct {
	// RawPath is the preserved raw report, empty if it was never moved.
	RawPath string

	// Err is the underlying error.
	Err error
}

func (e *ReformatError) Error() string {
	if e.RawPath == "" {
		return fmt.Sprintf("reformatting report: %v", e.Err)
	}
	return fmt.Sprintf("reformatting report (raw copy kept at %s): %v", e.RawPath, e.Err)
}

func (e *ReformatError) Unwrap() error {
	return e.Err
}
