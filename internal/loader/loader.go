// Package loader implements the batch pipeline behind cispumf.Loader:
// discover survey files in a directory, parse and harmonize each one, and
// concatenate the results into a single table.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/microdata-tools/cispumf/internal/files/filesystem"
	"github.com/microdata-tools/cispumf/internal/harmonize"
	"github.com/microdata-tools/cispumf/internal/stata"
	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// Service implements the cispumf.Loader interface. Files are processed
// sequentially in the sorted order the filesystem reports them, so repeated
// runs over an unchanged directory produce identical tables.
type Service struct {
	fs     filesystem.FileSystemProvider
	logger cispumf.Logger
}

var _ cispumf.Loader = (*Service)(nil)

// NewService creates a Service with all dependencies injected.
// Nil dependencies are construction mistakes and panic.
func NewService(fs filesystem.FileSystemProvider, logger cispumf.Logger) *Service {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Service{fs: fs, logger: logger}
}

// Load runs the batch pipeline described by config. A parse or schema
// failure in any file aborts the whole batch. When no file matches the
// pattern, Load returns an empty table with the canonical schema.
func (s *Service) Load(ctx context.Context, config cispumf.LoadConfig) (*cispumf.Table, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	info, err := s.fs.Stat(config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cispumf.ErrDataDirNotFound, config.DataDir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", cispumf.ErrDataDirNotFound, config.DataDir)
	}

	paths, err := s.fs.Glob(config.DataDir, config.Pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", config.DataDir, err)
	}

	s.logger.Verbose("Found %d file(s) matching %s in %s", len(paths), config.Pattern, config.DataDir)

	if len(paths) == 0 {
		s.logger.Info("No files match %s in %s; returning an empty table", config.Pattern, config.DataDir)
		return cispumf.NewTable(harmonize.Allowlist), nil
	}

	tables := make([]*cispumf.Table, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, rep, err := s.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}

		if rep.Year != 0 {
			s.logger.Info("✓ %s: year %d, kept %d of %d rows", filepath.Base(path), rep.Year, rep.RowsKept, rep.RowsRead)
		} else {
			s.logger.Info("✓ %s: no rows", filepath.Base(path))
		}
		tables = append(tables, table)
	}

	combined, err := cispumf.Concat(tables...)
	if err != nil {
		return nil, err
	}

	s.logger.Verbose("Combined %d file(s) into %d rows", len(paths), combined.NumRows())
	return combined, nil
}

// loadFile parses and harmonizes a single survey file.
func (s *Service) loadFile(path string) (*cispumf.Table, harmonize.Report, error) {
	raw, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, harmonize.Report{}, fmt.Errorf("%w: %v", cispumf.ErrParse, err)
	}

	parsed, err := stata.ReadTable(bytes.NewReader(raw), path)
	if err != nil {
		return nil, harmonize.Report{}, err
	}

	return harmonize.Apply(parsed)
}
