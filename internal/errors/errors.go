package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Configuration errors (CONFIG-001 to CONFIG-099)
	// Fatal to the operation that needed the configuration.
	ErrCodePolicyNotFound ErrorCode = "CONFIG-001"
	ErrCodePolicyInvalid  ErrorCode = "CONFIG-002"
	ErrCodePolicyEmpty    ErrorCode = "CONFIG-003"
	ErrCodeOutputDir      ErrorCode = "CONFIG-004"
	ErrCodeSignerKey      ErrorCode = "CONFIG-005"

	// Data errors (DATA-001 to DATA-099)
	// Affect one input among many; recorded and skipped.
	ErrCodeInputUnreadable ErrorCode = "DATA-001"
	ErrCodeInputNotJSON    ErrorCode = "DATA-002"
	ErrCodeInputNotFound   ErrorCode = "DATA-003"

	// Evaluation errors (EVAL-001 to EVAL-099)
	ErrCodeUnknownStatus    ErrorCode = "EVAL-001"
	ErrCodeConditionNoMatch ErrorCode = "EVAL-002"
	ErrCodeVerdictWorst     ErrorCode = "EVAL-003"

	// Verification errors (VERIFY-001 to VERIFY-099)
	ErrCodeHashMismatch ErrorCode = "VERIFY-001"
	ErrCodeHashMissing  ErrorCode = "VERIFY-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-004"
	ErrCodeFileMarshal     ErrorCode = "IO-005"

	// Bundle errors (BUNDLE-001 to BUNDLE-099)
	ErrCodeBundleNoInputs ErrorCode = "BUNDLE-001"
	ErrCodeBundleArchive  ErrorCode = "BUNDLE-002"
	ErrCodeBundleSigning  ErrorCode = "BUNDLE-003"

	// Usage errors (USAGE-001 to USAGE-099)
	// Bad flags or arguments, surfaced before any work starts.
	ErrCodeUsage ErrorCode = "USAGE-001"
)

// DiagError represents an enhanced error with code, suggestions, and a cause chain
type DiagError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *DiagError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *DiagError) Unwrap() error {
	return e.Cause
}

// New creates a new DiagError
func New(code ErrorCode, message string) *DiagError {
	return &DiagError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new DiagError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *DiagError {
	return &DiagError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *DiagError) WithSuggestion(suggestion string) *DiagError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *DiagError) WithSuggestions(suggestions ...string) *DiagError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// IsCode reports whether err is a DiagError carrying the given code
func IsCode(err error, code ErrorCode) bool {
	var diagErr *DiagError
	for err != nil {
		if de, ok := err.(*DiagError); ok {
			diagErr = de
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return diagErr != nil && diagErr.Code == code
}

// Common error constructors for frequently used errors

// NewPolicyNotFoundError creates a policy file not found error
func NewPolicyNotFoundError(path string) *DiagError {
	return New(ErrCodePolicyNotFound, fmt.Sprintf("policy file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Pass the rule-set file with --rules")
}

// NewPolicyInvalidError creates a policy parse error
func NewPolicyInvalidError(path string, cause error) *DiagError {
	return Wrap(ErrCodePolicyInvalid, fmt.Sprintf("invalid policy document: %s", path), cause).
		WithSuggestion("Check the YAML syntax of the rule-set file").
		WithSuggestion("Each rule needs name, condition, verdict and failVerdict")
}

// NewUnknownStatusError creates an unknown check status error
func NewUnknownStatusError(status string) *DiagError {
	return New(ErrCodeUnknownStatus, fmt.Sprintf("unknown check status: %q", status)).
		WithSuggestion("Valid statuses are pass, fail, warn and skipped")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *DiagError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *DiagError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
