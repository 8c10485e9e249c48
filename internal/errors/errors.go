// Package errors provides sentinel errors and structured error details for crosscov.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid configuration, manifest, pattern or encoding.
	ErrValidation = errors.New("validation error")

	// ErrPermission indicates the output or input could not be accessed.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a manifest, module, or file was not found.
	ErrNotFound = errors.New("not found")
)

// DetailError is an error with enough context to be printed to the user
// as is.
type DetailError struct {
	// Type is a short category such as "aggregation failed".
	Type string

	// Message describes the failure.
	Message string

	// Location is the manifest or config file involved, if any.
	Location string

	// Field is the config key or manifest field at fault, if any.
	Field string

	// Context holds extra key-value pairs, rendered sorted by key.
	Context map[string]string

	// Hint tells the user what to do next.
	Hint string

	// Cause is matched by errors.Is and errors.As.
	Cause error
}

// Error renders the detail as a multi-line block.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	for _, k := range e.ContextKeys() {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the cause.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// ContextKeys returns the keys of Context in sorted order.
func (e *DetailError) ContextKeys() []string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewValidationError reports a bad value in the config file or manifest.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError reports a missing manifest, module or profile.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewPermissionError reports a file or directory crosscov may not read or
// write. The context usually carries the path.
func NewPermissionError(message string, context map[string]string, hint string) error {
	return &DetailError{
		Type:    "permission denied",
		Message: message,
		Context: context,
		Hint:    hint,
		Cause:   ErrPermission,
	}
}

// NewEncodingError reports an encoding name that cannot be resolved, or
// report content that the encoding cannot represent. It matches both
// ErrValidation and cause.
func NewEncodingError(name string, cause error) error {
	return &DetailError{
		Type:    "unsupported encoding",
		Message: cause.Error(),
		Field:   "report.sourceEncoding",
		Context: map[string]string{"encoding": name},
		Hint:    "Use an IANA charset that can hold every character of the sources, such as UTF-8",
		Cause:   fmt.Errorf("%w: %w", ErrValidation, cause),
	}
}

// NewAggregationError reports a failure while building the raw report.
// module is empty when the report itself, not one module, failed.
func NewAggregationError(module string, cause error) error {
	d := &DetailError{
		Type:    "aggregation failed",
		Message: summary(cause),
		Hint:    "No report was written; check the module sources and the cover profile",
		Cause:   cause,
	}
	if module != "" {
		d.Context = map[string]string{"module": module}
	}
	return d
}

// NewReformatError reports a raw report that could not be pretty-printed.
// rawPath is the preserved raw copy, empty if it was never moved aside.
func NewReformatError(rawPath string, cause error) error {
	d := &DetailError{
		Type:    "reformat failed",
		Message: summary(cause),
		Hint:    "Rerun without --pretty to write the report unformatted",
		Cause:   cause,
	}
	if rawPath != "" {
		d.Context = map[string]string{"raw": rawPath}
		d.Hint = "The unformatted report is kept at " + rawPath
	}
	return d
}

// summary is a one-line description of err.
func summary(err error) string {
	var d *DetailError
	if errors.As(err, &d) {
		return d.Type + ": " + d.Message
	}
	return err.Error()
}

// Wrapf wraps cause with a sentinel so both remain matchable with errors.Is.
func Wrapf(sentinel, cause error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), sentinel, cause)
}
