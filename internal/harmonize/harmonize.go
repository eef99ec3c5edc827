// Package harmonize normalizes one parsed survey file to the canonical
// cross-year schema.
//
// Survey releases differ across years: three variables were renamed with
// the 2018 release, and the age group coding was recut at the same time.
// Apply folds those differences away so every file, whatever its year,
// yields a table with the same columns and comparable codes.
package harmonize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// Report summarizes the row attrition of one harmonized file.
type Report struct {
	// RowsRead is the number of rows parsed from the file.
	RowsRead int
	// RowsAfterMissing is the count remaining after dropping rows that
	// carry a missing-value code.
	RowsAfterMissing int
	// RowsKept is the number of rows in the returned table.
	RowsKept int
	// Year is the file's reference year, or 0 when the file has no rows.
	Year int
}

// Apply harmonizes a parsed survey file. The steps, in order: rename
// year-specific columns to canonical names, select the Allowlist columns,
// drop rows carrying a missing-value code, determine the file's reference
// year, and drop rows whose age group code is invalid for that year.
//
// Column names are matched case-insensitively. A file missing an Allowlist
// column, or carrying both a canonical name and its renamed variant,
// returns ErrSchema. A file whose rows span more than one reference year
// returns ErrMixedYears.
func Apply(t *cispumf.Table) (*cispumf.Table, Report, error) {
	rep := Report{RowsRead: t.NumRows()}

	selected, err := selectColumns(t)
	if err != nil {
		return nil, rep, err
	}

	afterMissing := dropMissingCoded(selected)
	rep.RowsAfterMissing = afterMissing.NumRows()

	year, err := referenceYear(afterMissing)
	if err != nil {
		return nil, rep, err
	}
	rep.Year = year

	out := afterMissing
	if out.NumRows() > 0 {
		out = dropInvalidAgeGroups(out, year)
	}
	rep.RowsKept = out.NumRows()

	return out, rep, nil
}

// selectColumns renames year-specific columns and restricts the table to
// the Allowlist, in Allowlist order.
func selectColumns(t *cispumf.Table) (*cispumf.Table, error) {
	byName := make(map[string]*cispumf.Column, len(t.Columns))
	for i := range t.Columns {
		name := strings.ToLower(t.Columns[i].Name)
		if canonical, ok := Renames[name]; ok {
			name = canonical
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q after renaming", cispumf.ErrSchema, name)
		}
		byName[name] = &t.Columns[i]
	}

	out := &cispumf.Table{Columns: make([]cispumf.Column, 0, len(Allowlist))}
	var missing []string
	for _, name := range Allowlist {
		src, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		col := *src
		col.Name = name
		out.Columns = append(out.Columns, col)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: file lacks columns %s", cispumf.ErrSchema, strings.Join(missing, ", "))
	}

	return out, nil
}

// dropMissingCoded drops every row whose value in a MissingCodes column
// equals that column's code. Comparison uses the canonical string
// rendering, so a numerically stored 99 matches the code "99". Masked
// cells render as "" and never match.
func dropMissingCoded(t *cispumf.Table) *cispumf.Table {
	n := t.NumRows()
	if n == 0 {
		return t
	}

	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}
	for name, code := range MissingCodes {
		col, ok := t.Lookup(name)
		if !ok {
			continue
		}
		for i := 0; i < n; i++ {
			if keep[i] && col.Value(i) == code {
				keep[i] = false
			}
		}
	}

	return filterRows(t, keep)
}

// referenceYear returns the single year shared by all rows. A table with
// rows but no usable year value is a schema failure; rows spanning more
// than one year fail with ErrMixedYears.
func referenceYear(t *cispumf.Table) (int, error) {
	if t.NumRows() == 0 {
		return 0, nil
	}

	col, ok := t.Lookup("year")
	if !ok {
		return 0, fmt.Errorf("%w: file lacks columns year", cispumf.ErrSchema)
	}

	seen := make(map[string]bool)
	var values []string
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}

	if len(values) == 0 {
		return 0, fmt.Errorf("%w: year column carries no usable values", cispumf.ErrSchema)
	}
	if len(values) > 1 {
		sort.Strings(values)
		return 0, fmt.Errorf("%w: file spans reference years %s", cispumf.ErrMixedYears, strings.Join(values, ", "))
	}

	year, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, fmt.Errorf("%w: year value %q is not an integer", cispumf.ErrSchema, values[0])
	}
	return year, nil
}

// dropInvalidAgeGroups drops rows whose age group code is outside the
// valid set for the reference year. Masked cells are never valid.
func dropInvalidAgeGroups(t *cispumf.Table, year int) *cispumf.Table {
	col, ok := t.Lookup("agegp")
	if !ok {
		return t
	}

	valid := ValidAgeGroups(year)
	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = valid[ageCode(col, i)]
	}

	return filterRows(t, keep)
}

// ageCode renders an agegp cell the way the codebooks print it: numeric
// cells as zero-padded two-digit codes, string cells verbatim.
func ageCode(col *cispumf.Column, i int) string {
	if col.IsMissing(i) {
		return ""
	}
	if col.IsNumeric() {
		return fmt.Sprintf("%02d", int(col.Floats[i]))
	}
	return col.Strings[i]
}

// filterRows returns a table holding the rows of t where keep is true,
// preserving column order and types. When every row is kept, t is
// returned unchanged.
func filterRows(t *cispumf.Table, keep []bool) *cispumf.Table {
	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}
	if kept == len(keep) {
		return t
	}

	out := &cispumf.Table{Columns: make([]cispumf.Column, len(t.Columns))}
	for j := range t.Columns {
		src := &t.Columns[j]
		col := cispumf.Column{Name: src.Name}
		if src.IsNumeric() {
			col.Floats = make([]float64, 0, kept)
		} else {
			col.Strings = make([]string, 0, kept)
		}
		if src.Missing != nil {
			col.Missing = make([]bool, 0, kept)
		}

		for i, k := range keep {
			if !k {
				continue
			}
			if src.IsNumeric() {
				col.Floats = append(col.Floats, src.Floats[i])
			} else {
				col.Strings = append(col.Strings, src.Strings[i])
			}
			if src.Missing != nil {
				col.Missing = append(col.Missing, src.Missing[i])
			}
		}
		out.Columns[j] = col
	}

	return out
}
