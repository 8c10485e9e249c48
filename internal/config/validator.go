package config

import (
	"fmt"
	"strings"

	"github.com/crosscov/cli/internal/coverage"
	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/module"
)

// FieldError is one invalid configuration value.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors is a collection of validation errors.
type FieldErrors []FieldError

// Error implements the error interface.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks the values set in cfg. location names the config file in
// the returned error, which wraps ErrValidation.
func Validate(cfg *Config, location string) error {
	errs := validateReport(cfg.Report.SourceEncoding, cfg.Report.Includes, cfg.Report.Excludes, cfg.Report.Scopes)
	return asDetail(errs, location)
}

// Validate checks the effective settings.
func (s Settings) Validate() error {
	errs := validateReport(s.SourceEncoding, s.Includes, s.Excludes, s.Scopes)
	if s.Graph == "" {
		errs = append(errs, FieldError{Field: KeyGraph, Message: "must not be empty"})
	}
	return asDetail(errs, "")
}

func validateReport(encoding string, includes, excludes, scopes []string) FieldErrors {
	var errs FieldErrors
	if encoding != "" {
		if _, err := coverage.LookupEncoding(encoding); err != nil {
			errs = append(errs, FieldError{Field: KeySourceEncoding, Message: err.Error()})
		}
	}
	if err := coverage.ValidatePatterns(includes); err != nil {
		errs = append(errs, FieldError{Field: KeyIncludes, Message: err.Error()})
	}
	if err := coverage.ValidatePatterns(excludes); err != nil {
		errs = append(errs, FieldError{Field: KeyExcludes, Message: err.Error()})
	}
	if _, err := module.ParseScopeSet(scopes); err != nil {
		errs = append(errs, FieldError{Field: KeyScopes, Message: err.Error()})
	}
	return errs
}

func asDetail(errs FieldErrors, location string) error {
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	return &oerrors.DetailError{
		Type:     "validation failed",
		Message:  strings.TrimSpace(errs.Error()),
		Location: location,
		Field:    strings.Join(fields, ", "),
		Hint:     "Run 'crosscov config vet' after fixing the values",
		Cause:    oerrors.ErrValidation,
	}
}
