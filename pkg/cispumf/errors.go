package cispumf

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	table, err := loader.Load(ctx, config)
//	if errors.Is(err, cispumf.ErrSchema) {
//	    // A file is missing expected columns
//	}
var (
	// ErrUsage indicates the command line was malformed (missing or extra
	// arguments, unknown flags).
	ErrUsage = errors.New("usage error")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDataDirNotFound indicates the data directory does not exist or is not a directory.
	ErrDataDirNotFound = errors.New("data directory not found")

	// ErrParse indicates a PUMF file could not be parsed.
	ErrParse = errors.New("parse failed")

	// ErrSchema indicates a file's columns do not match the expected layout.
	ErrSchema = errors.New("schema mismatch")

	// ErrMixedYears indicates a single file carries more than one survey year.
	ErrMixedYears = errors.New("mixed survey years")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExecutionFailed indicates database ingest failed.
	ErrExecutionFailed = errors.New("execution failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrDataDirNotFound):
		return ExitDataDirMissing
	case errors.Is(err, ErrMixedYears):
		return ExitSchemaError
	case errors.Is(err, ErrSchema):
		return ExitSchemaError
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
