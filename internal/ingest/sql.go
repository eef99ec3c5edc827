package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// ValidateIdentifier checks that a name is usable as an unquoted PostgreSQL
// identifier. Both the destination table name and the survey column names
// pass through here before any SQL is built from them.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier '%s': must start with a letter or underscore and contain only alphanumerics and underscores, 1-63 characters (PostgreSQL identifier limit): %w", name, cispumf.ErrInvalidConfig)
	}
	return nil
}

// CreateTableSQL builds the DDL for the destination table. Numeric survey
// columns become DOUBLE PRECISION, string columns become TEXT. Every row
// additionally carries the UUID of the ingest run that wrote it.
func CreateTableSQL(tableName string, t *cispumf.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", tableName)
	b.WriteString("\tload_id UUID NOT NULL")
	for i := range t.Columns {
		sqlType := "TEXT"
		if t.Columns[i].IsNumeric() {
			sqlType = "DOUBLE PRECISION"
		}
		fmt.Fprintf(&b, ",\n\t%s %s", t.Columns[i].Name, sqlType)
	}
	b.WriteString("\n)")
	return b.String()
}

// DropTableSQL builds the statement used by the replace workflow.
func DropTableSQL(tableName string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
}

// InsertSQL builds the parameterized single-row insert statement for a table.
// $1 is the load UUID; the survey columns follow in table order.
func InsertSQL(tableName string, t *cispumf.Table) string {
	names := make([]string, 0, t.NumCols()+1)
	names = append(names, "load_id")
	names = append(names, t.ColumnNames()...)

	placeholders := make([]string, len(names))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(names, ", "), strings.Join(placeholders, ", "))
}

// RowArgs assembles the query arguments for one table row, in the column
// order InsertSQL emits. Masked cells become nil so they arrive as SQL NULL.
func RowArgs(t *cispumf.Table, row int, loadID uuid.UUID) []any {
	args := make([]any, 0, t.NumCols()+1)
	args = append(args, loadID)
	for j := range t.Columns {
		col := &t.Columns[j]
		switch {
		case col.IsMissing(row):
			args = append(args, nil)
		case col.IsNumeric():
			args = append(args, col.Floats[row])
		default:
			args = append(args, col.Strings[row])
		}
	}
	return args
}
