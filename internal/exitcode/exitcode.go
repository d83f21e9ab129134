package exitcode

import (
	"errors"
	"os"

	diagerrors "github.com/arcops/diagnostics/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// PolicyFailed indicates policy evaluation reached the worst verdict
	PolicyFailed = 3

	// VerificationFailed indicates an artifact hash or signature mismatch
	VerificationFailed = 4

	// Interrupted indicates the operation was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var diagErr *diagerrors.DiagError
	if errors.As(err, &diagErr) {
		switch diagErr.Code {
		case diagerrors.ErrCodeHashMismatch, diagerrors.ErrCodeHashMissing:
			return VerificationFailed
		case diagerrors.ErrCodeVerdictWorst:
			return PolicyFailed
		case diagerrors.ErrCodePolicyNotFound, diagerrors.ErrCodePolicyInvalid,
			diagerrors.ErrCodePolicyEmpty, diagerrors.ErrCodeUsage:
			return UsageError
		}
	}

	return GeneralError
}
