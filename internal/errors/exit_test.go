package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			wantCode: ExitSuccess,
		},
		{
			name:     "validation error",
			err:      ErrValidation,
			wantCode: ExitValidationError,
		},
		{
			name:     "wrapped validation error",
			err:      Wrapf(ErrValidation, errors.New("unknown scope"), "parsing scopes"),
			wantCode: ExitValidationError,
		},
		{
			name:     "detail error",
			err:      NewNotFoundError("graph manifest not found", "crosscov.yaml", ""),
			wantCode: ExitNotFound,
		},
		{
			name:     "encoding detail error",
			err:      NewEncodingError("ISO-8859-1", errors.New("rune not supported")),
			wantCode: ExitValidationError,
		},
		{
			name:     "permission error",
			err:      fmt.Errorf("writing report: %w", ErrPermission),
			wantCode: ExitPermissionDenied,
		},
		{
			name:     "exit error wins over its cause",
			err:      &ExitError{Code: ExitGeneralError, Err: ErrValidation},
			wantCode: ExitGeneralError,
		},
		{
			name:     "unknown error returns general error",
			err:      errors.New("unknown error"),
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	cause := NewValidationError("unknown scope", "crosscov.yaml", "scope", "")
	exitErr := NewExitError(cause)

	assert.Equal(t, ExitValidationError, exitErr.Code)
	assert.Equal(t, cause.Error(), exitErr.Error())
	assert.True(t, errors.Is(exitErr, ErrValidation))
	assert.False(t, exitErr.Printed)

	assert.Equal(t, "Not Found", (&ExitError{Code: ExitNotFound}).Error())
}

func TestExitCodeConstants(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitGeneralError)
	assert.Equal(t, 2, ExitValidationError)
	assert.Equal(t, 4, ExitPermissionDenied)
	assert.Equal(t, 5, ExitNotFound)
}

func TestExitCodeName(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{ExitSuccess, "Success"},
		{ExitGeneralError, "General Error"},
		{ExitValidationError, "Validation Error"},
		{ExitPermissionDenied, "Permission Denied"},
		{ExitNotFound, "Not Found"},
		{999, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCodeName(tt.code))
		})
	}
}
