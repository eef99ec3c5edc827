package cispumf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// LoadConfig contains all parameters needed for a load operation.
type LoadConfig struct {
	// DataDir is the directory scanned for PUMF files
	DataDir string

	// Pattern is the filename glob matched within DataDir.
	// Defaults to DefaultPattern ("*.dta") when empty.
	Pattern string

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// An empty Pattern is replaced with DefaultPattern.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("DataDir is required: %w", ErrInvalidConfig))
	}

	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}

	if _, err := filepath.Match(c.Pattern, "probe"); err != nil {
		errs = append(errs, fmt.Errorf("pattern %q is not a valid glob: %w", c.Pattern, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ExportConfig contains all parameters needed for an export operation.
type ExportConfig struct {
	// Load configures the directory scan that produces the table
	Load LoadConfig

	// Format is the output encoding: "csv" or "parquet"
	Format string

	// OutputPath is the file the encoded table is written to.
	// "-" writes CSV to standard output.
	OutputPath string
}

// Validate checks if the ExportConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ExportConfig) Validate() error {
	var errs []error

	if err := c.Load.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Format == "" {
		errs = append(errs, fmt.Errorf("Format is required: %w", ErrInvalidConfig))
	}

	if c.OutputPath == "" {
		errs = append(errs, fmt.Errorf("OutputPath is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// IngestConfig contains all parameters needed for a database ingest operation.
type IngestConfig struct {
	// Load configures the directory scan that produces the table
	Load LoadConfig

	// ConnectionString is the PostgreSQL connection string (URI format).
	// After CLI resolution, this contains the target database connection.
	ConnectionString string

	// TableName is the destination table.
	// Defaults to DefaultIngestTable when empty.
	TableName string

	// Replace drops and recreates the destination table before loading
	Replace bool

	// Timeout is the global timeout for the entire ingest
	Timeout time.Duration
}

// Validate checks if the IngestConfig has all required fields and valid values.
// An empty TableName is replaced with DefaultIngestTable.
// It returns a multi-error if multiple validation failures occur.
func (c *IngestConfig) Validate() error {
	var errs []error

	if err := c.Load.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.TableName == "" {
		c.TableName = DefaultIngestTable
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string
}

// Loader loads PUMF files from a directory and returns one combined table.
//
// Implementations read every file matching the configured pattern, harmonize
// column names across survey years, select the canonical column set, drop
// rows carrying not-stated codes or out-of-scope age groups, and concatenate
// the per-file results in discovery order. Any filesystem, parse, or schema
// failure aborts the whole batch; there are no retries and no partial results.
type Loader interface {
	Load(ctx context.Context, config LoadConfig) (*Table, error)
}

// Ingester writes a combined table into a PostgreSQL database.
type Ingester interface {
	Ingest(ctx context.Context, table *Table, config IngestConfig) error
}
