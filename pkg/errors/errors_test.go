package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad port value")

	assert.Equal(t, ErrCodeConfigInvalid, err.Code)
	assert.Equal(t, SeverityError, err.Severity)
	assert.False(t, err.Recoverable)
	assert.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Error(), "FWDE2002")
	assert.Contains(t, err.Error(), "bad port value")
}

func TestWrapPreservesCauseAndContext(t *testing.T) {
	cause := fmt.Errorf("disk full")
	inner := Wrap(cause, ErrCodeLoadInsertFailed, "insert failed").
		WithContext("table", "FactTrans")

	outer := Wrap(inner, ErrCodeInternal, "pipeline aborted")

	assert.Equal(t, "FactTrans", outer.Context["table"], "wrapping inherits context")
	assert.True(t, stderrors.Is(outer, inner))
	assert.Equal(t, cause, stderrors.Unwrap(stderrors.Unwrap(outer)))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestErrorIsMatchesOnCode(t *testing.T) {
	a := New(ErrCodeSchemaDDLFailed, "first")
	b := New(ErrCodeSchemaDDLFailed, "second")
	c := New(ErrCodeSchemaDropFailed, "other")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestBuilderMethods(t *testing.T) {
	err := New(ErrCodeConnectionFailed, "cannot reach host").
		WithSeverity(SeverityCritical).
		WithContext("host", "db:3306").
		WithSuggestions("Check that the server is running").
		AsRecoverable()

	assert.Equal(t, SeverityCritical, err.Severity)
	assert.Equal(t, "db:3306", err.Context["host"])
	assert.True(t, err.Recoverable)
	assert.Contains(t, err.Error(), "Suggestions:")
	assert.Contains(t, err.Error(), "1. Check that the server is running")
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("boom")

	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"connection", ConnectionError("unreachable", cause), ErrCodeConnectionFailed},
		{"schema", SchemaError("ddl failed", cause), ErrCodeSchemaDDLFailed},
		{"extract", ExtractError("FactTrans", cause), ErrCodeExtractQueryFailed},
		{"load", LoadError("DimDate", cause), ErrCodeLoadInsertFailed},
		{"validation", ValidationError("orphan check", cause), ErrCodeValidationQueryFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, cause, tt.err.Cause)
		})
	}

	cfgErr := ConfigError("port out of range", "source.port")
	assert.Equal(t, ErrCodeConfigInvalid, cfgErr.Code)
	assert.Equal(t, "source.port", cfgErr.Context["field"])
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeLoadCommitFailed,
		GetErrorCode(New(ErrCodeLoadCommitFailed, "x")))
	assert.Equal(t, ErrCodeLoadCommitFailed,
		GetErrorCode(fmt.Errorf("outer: %w", New(ErrCodeLoadCommitFailed, "x"))))
	assert.Equal(t, ErrCodeUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(New(ErrCodeConnectionTimeout, "x").AsRecoverable()))
	assert.False(t, IsRecoverable(New(ErrCodeConnectionTimeout, "x")))
	assert.False(t, IsRecoverable(fmt.Errorf("plain")))
}
