package cispumf

import (
	"fmt"
)

// Column is a single named column of survey values.
//
// Exactly one of Strings or Floats is non-nil; statistical packages store
// coded variables either way depending on the release year, and both carry
// the same information. Missing marks masked cells (system-missing values in
// the source file); the corresponding entry in the data slice is the zero
// value and must not be interpreted.
type Column struct {
	Name    string
	Strings []string
	Floats  []float64
	Missing []bool
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Strings != nil {
		return len(c.Strings)
	}
	if c.Floats != nil {
		return len(c.Floats)
	}
	return 0
}

// IsNumeric reports whether the column stores float64 values.
func (c *Column) IsNumeric() bool {
	return c.Floats != nil
}

// IsMissing reports whether cell i is masked.
func (c *Column) IsMissing(i int) bool {
	return c.Missing != nil && c.Missing[i]
}

// Value returns the canonical string rendering of cell i.
// Masked cells render as the empty string. Numeric cells use Go's default
// float formatting, so integral codes render without a decimal point
// (99 -> "99").
func (c *Column) Value(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Strings != nil {
		return c.Strings[i]
	}
	return fmt.Sprintf("%v", c.Floats[i])
}

// Table is an ordered set of equal-length columns.
type Table struct {
	Columns []Column
}

// NewTable returns an empty table whose schema is the given column names,
// in order. All columns are string-typed with zero rows.
func NewTable(names []string) *Table {
	t := &Table{Columns: make([]Column, len(names))}
	for i, name := range names {
		t.Columns[i] = Column{Name: name, Strings: []string{}, Missing: []bool{}}
	}
	return t
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// NumCols returns the number of columns in the table.
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// Lookup returns the column with the given name, or false if absent.
func (t *Table) Lookup(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Concat concatenates tables row-wise, preserving input order.
//
// All tables must share an identical schema (same column names in the same
// order); a mismatch returns ErrSchema. A result column stays numeric only
// when every non-empty input column is numeric; otherwise values are
// promoted to their canonical string rendering. Zero-row inputs contribute
// no rows and do not influence column types.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return &Table{}, nil
	}

	names := tables[0].ColumnNames()
	totalRows := 0
	for _, t := range tables {
		other := t.ColumnNames()
		if len(other) != len(names) {
			return nil, fmt.Errorf("cannot concatenate: %d columns vs %d: %w", len(other), len(names), ErrSchema)
		}
		for j := range names {
			if other[j] != names[j] {
				return nil, fmt.Errorf("cannot concatenate: column %d is %q vs %q: %w", j, other[j], names[j], ErrSchema)
			}
		}
		totalRows += t.NumRows()
	}

	out := &Table{Columns: make([]Column, len(names))}
	for j := range names {
		numeric := true
		nonEmpty := false
		for _, t := range tables {
			c := &t.Columns[j]
			if c.Len() == 0 {
				continue
			}
			nonEmpty = true
			if !c.IsNumeric() {
				numeric = false
			}
		}
		if !nonEmpty {
			numeric = tables[0].Columns[j].IsNumeric()
		}

		col := Column{Name: names[j], Missing: make([]bool, 0, totalRows)}
		if numeric {
			col.Floats = make([]float64, 0, totalRows)
		} else {
			col.Strings = make([]string, 0, totalRows)
		}

		for _, t := range tables {
			c := &t.Columns[j]
			for i := 0; i < c.Len(); i++ {
				miss := c.IsMissing(i)
				col.Missing = append(col.Missing, miss)
				if numeric {
					col.Floats = append(col.Floats, c.Floats[i])
				} else if miss {
					col.Strings = append(col.Strings, "")
				} else {
					col.Strings = append(col.Strings, c.Value(i))
				}
			}
		}
		out.Columns[j] = col
	}

	return out, nil
}
