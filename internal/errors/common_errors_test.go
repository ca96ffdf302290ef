package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewValidationError("top_n must be positive"),
			wantMessage: "[VALIDATION] top_n must be positive",
		},
		{
			name:        "error with cause",
			appError:    NewStorageError("failed to create output directory", errors.New("permission denied")),
			wantMessage: "[STORAGE] failed to create output directory: permission denied",
		},
		{
			name:        "schema error names the column",
			appError:    NewSchemaError("Verdict"),
			wantMessage: `[SCHEMA] column "Verdict" not present in dataset`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewRenderError("verdicts.png", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "verdicts.png", err.Context["artifact"])
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeParsing, Message: "bad date"}
	err.WithContext("column", "date of murder").WithContext("row", 4)

	require.Len(t, err.Context, 2)
	assert.Equal(t, "date of murder", err.Context["column"])
	assert.Equal(t, 4, err.Context["row"])
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("load step: %w", NewConfigError("no input", NewNotFoundError("dataset.xlsx")))

	assert.True(t, IsType(wrapped, ErrTypeConfig))
	assert.True(t, IsType(wrapped, ErrTypeNotFound))
	assert.False(t, IsType(wrapped, ErrTypeRender))
	assert.False(t, IsType(errors.New("plain"), ErrTypeConfig))
	assert.False(t, IsType(nil, ErrTypeConfig))
}
