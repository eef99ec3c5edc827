package cispumf

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load/export/ingest completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitDataDirMissing  = 11 // Data directory not found or not a directory
	ExitParseError      = 12 // A PUMF file could not be parsed
	ExitSchemaError     = 13 // Expected columns absent, duplicated, or inconsistent
	ExitConnectionError = 14 // Failed to connect to database
	ExitExecutionFailed = 15 // Database ingest failed
)

const (
	// DefaultPattern is the filename glob used to discover PUMF files
	// when no pattern is configured.
	DefaultPattern = "*.dta"

	// DefaultIngestTimeout is the catastrophic failure protection timeout
	// for database ingest runs.
	DefaultIngestTimeout = 3 * time.Minute

	// DefaultIngestTable is the Postgres table name rows are loaded into
	// when no table is configured.
	DefaultIngestTable = "cis_pumf"

	// DefaultForceApprovalCountdown is how long a forced table replace
	// waits before proceeding, leaving a window to Ctrl+C.
	DefaultForceApprovalCountdown = 5 * time.Second
)
