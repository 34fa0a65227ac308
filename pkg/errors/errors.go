package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Connection errors (1xxx)
	ErrCodeConnectionFailed     ErrorCode = "FWDE1001"
	ErrCodeConnectionTimeout    ErrorCode = "FWDE1002"
	ErrCodeAuthenticationFailed ErrorCode = "FWDE1003"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "FWDE2001"
	ErrCodeConfigInvalid  ErrorCode = "FWDE2002"
	ErrCodeConfigMissing  ErrorCode = "FWDE2003"

	// Schema errors (3xxx)
	ErrCodeSchemaFileMissing ErrorCode = "FWDE3001"
	ErrCodeSchemaDDLFailed   ErrorCode = "FWDE3002"
	ErrCodeSchemaDropFailed  ErrorCode = "FWDE3003"

	// Extract errors (4xxx)
	ErrCodeExtractQueryFailed ErrorCode = "FWDE4001"
	ErrCodeExtractScanFailed  ErrorCode = "FWDE4002"

	// Load errors (5xxx)
	ErrCodeLoadInsertFailed ErrorCode = "FWDE5001"
	ErrCodeLoadCommitFailed ErrorCode = "FWDE5002"
	ErrCodeLookupFailed     ErrorCode = "FWDE5003"

	// Validation errors (6xxx)
	ErrCodeValidationQueryFailed ErrorCode = "FWDE6001"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "FWDE9001"
	ErrCodeUnknown  ErrorCode = "FWDE9999"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // System failure, requires immediate attention
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed, but system continues
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit its context
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConnectionError creates a connection-related error. Raised only after both
// the primary and fallback connection attempts have failed.
func ConnectionError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeConnectionFailed, message).
		WithSeverity(SeverityCritical).
		WithSuggestions(
			"Check that the database server is running and reachable",
			"Verify host, port and credentials in the configuration",
			"Run 'finwarehouse setup' to reconfigure connections",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'finwarehouse setup' to reconfigure",
		)
}

// SchemaError creates a DDL/schema initialization error. Schema errors are
// always fatal to the run.
func SchemaError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeSchemaDDLFailed, message).
		WithSeverity(SeverityCritical)
}

// ExtractError creates a source-query error for a loader
func ExtractError(table string, cause error) *AppError {
	return Wrap(cause, ErrCodeExtractQueryFailed, fmt.Sprintf("failed to extract source rows for %s", table)).
		WithContext("table", table)
}

// LoadError creates a warehouse insert error for a loader
func LoadError(table string, cause error) *AppError {
	return Wrap(cause, ErrCodeLoadInsertFailed, fmt.Sprintf("failed to load rows into %s", table)).
		WithContext("table", table)
}

// ValidationError creates a validation check execution error. Data quality
// anomalies are warnings, not errors; this covers only a failure to run a
// check at all.
func ValidationError(check string, cause error) *AppError {
	return Wrap(cause, ErrCodeValidationQueryFailed, fmt.Sprintf("validation check %q could not be executed", check)).
		WithContext("check", check)
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeUnknown
}
