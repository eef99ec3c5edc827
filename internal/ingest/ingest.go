// Package ingest writes combined survey tables into PostgreSQL.
//
// Each run is tagged with a fresh UUID stored in the load_id column, so
// repeated ingests of the same extraction stay distinguishable in the
// destination table. Inserts go through a single pgx batch; any failure
// aborts the run with the offending row in the error.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// Service implements the cispumf.Ingester interface.
type Service struct {
	logger cispumf.Logger
}

// NewService creates an ingest service with injected dependencies.
// Panics if logger is nil.
func NewService(logger cispumf.Logger) *Service {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Service{logger: logger}
}

// Ingest writes the table into the configured PostgreSQL database.
// The destination table is created when absent; Replace drops it first.
func (s *Service) Ingest(ctx context.Context, table *cispumf.Table, config cispumf.IngestConfig) error {
	if table == nil {
		return fmt.Errorf("table cannot be nil: %w", cispumf.ErrInvalidConfig)
	}
	if config.ConnectionString == "" {
		return fmt.Errorf("ConnectionString is required: %w", cispumf.ErrInvalidConfig)
	}
	if config.TableName == "" {
		config.TableName = cispumf.DefaultIngestTable
	}

	if err := ValidateIdentifier(config.TableName); err != nil {
		return err
	}
	for _, name := range table.ColumnNames() {
		if err := ValidateIdentifier(name); err != nil {
			return err
		}
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = cispumf.DefaultIngestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, config.ConnectionString)
	if err != nil {
		return fmt.Errorf("%w: %w", cispumf.ErrConnectionFailed, err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", cispumf.ErrConnectionFailed, err)
	}

	loadID := uuid.New()
	s.logger.Verbose("Ingesting %d row(s) into %s as load %s", table.NumRows(), config.TableName, loadID)

	if config.Replace {
		if _, err := pool.Exec(ctx, DropTableSQL(config.TableName)); err != nil {
			return fmt.Errorf("%w: failed to drop table %s: %w", cispumf.ErrExecutionFailed, config.TableName, err)
		}
		s.logger.Verbose("Dropped existing table %s", config.TableName)
	}

	if _, err := pool.Exec(ctx, CreateTableSQL(config.TableName, table)); err != nil {
		return fmt.Errorf("%w: failed to create table %s: %w", cispumf.ErrExecutionFailed, config.TableName, err)
	}

	if err := s.insertRows(ctx, pool, table, config.TableName, loadID); err != nil {
		return err
	}

	s.logger.Info("✓ Ingested %d row(s) into %s (load %s)", table.NumRows(), config.TableName, loadID)
	return nil
}

// insertRows batch-inserts every table row tagged with the load UUID.
func (s *Service) insertRows(ctx context.Context, pool *pgxpool.Pool, table *cispumf.Table, tableName string, loadID uuid.UUID) error {
	if table.NumRows() == 0 {
		return nil
	}

	insertSQL := InsertSQL(tableName, table)

	batch := &pgx.Batch{}
	for i := 0; i < table.NumRows(); i++ {
		batch.Queue(insertSQL, RowArgs(table, i, loadID)...)
	}

	results := pool.SendBatch(ctx, batch)

	for i := 0; i < table.NumRows(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("%w: failed to insert row %d: %w", cispumf.ErrExecutionFailed, i, err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("%w: failed to complete batch insert: %w", cispumf.ErrExecutionFailed, err)
	}

	return nil
}

// Verify Service implements the interface at compile time
var _ cispumf.Ingester = (*Service)(nil)
