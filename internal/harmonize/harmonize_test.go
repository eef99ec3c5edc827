package harmonize_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/microdata-tools/cispumf/internal/harmonize"
	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// surveyTable builds a table carrying every Allowlist column, string typed.
// Defaults survive every filter (agegp "08" is valid in both codings and
// "1" is no column's missing code); overrides replace whole columns.
func surveyTable(nrows int, year string, overrides map[string][]string) *cispumf.Table {
	t := &cispumf.Table{}
	for _, name := range harmonize.Allowlist {
		def := "1"
		switch name {
		case "year":
			def = year
		case "agegp":
			def = "08"
		}
		vals, ok := overrides[name]
		if !ok {
			vals = make([]string, nrows)
			for i := range vals {
				vals[i] = def
			}
		} else if len(vals) != nrows {
			panic(fmt.Sprintf("override for %s has %d values, want %d", name, len(vals), nrows))
		}
		t.Columns = append(t.Columns, cispumf.Column{Name: name, Strings: vals})
	}
	return t
}

func addColumn(t *cispumf.Table, name string, values []string) {
	t.Columns = append(t.Columns, cispumf.Column{Name: name, Strings: values})
}

func dropColumn(t *cispumf.Table, name string) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
			return
		}
	}
}

func renameColumn(t *cispumf.Table, from, to string) {
	for i := range t.Columns {
		if t.Columns[i].Name == from {
			t.Columns[i].Name = to
		}
	}
}

func setNumeric(t *cispumf.Table, name string, values []float64, missing []bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			t.Columns[i] = cispumf.Column{Name: name, Floats: values, Missing: missing}
			return
		}
	}
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply_OutputSchemaIsAllowlist(t *testing.T) {
	in := surveyTable(3, "2015", nil)
	// Source files carry many more variables than the extract keeps.
	addColumn(in, "alfst", []string{"1", "2", "3"})
	addColumn(in, "wksem", []string{"52", "0", "26"})

	out, rep, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !sameNames(out.ColumnNames(), harmonize.Allowlist) {
		t.Errorf("ColumnNames() = %v, want the allowlist in order", out.ColumnNames())
	}
	if rep.RowsKept != 3 {
		t.Errorf("RowsKept = %d, want 3", rep.RowsKept)
	}
}

func TestApply_DropsMissingCodedRows(t *testing.T) {
	ids := []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9"}
	marst := []string{"1", "2", "3", "99", "1", "2", "3", "4", "1", "2"}
	in := surveyTable(10, "2015", map[string][]string{"pumfid": ids, "marst": marst})

	out, rep, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if out.NumRows() != 9 {
		t.Fatalf("NumRows() = %d, want 9", out.NumRows())
	}
	if rep.RowsRead != 10 || rep.RowsAfterMissing != 9 || rep.RowsKept != 9 || rep.Year != 2015 {
		t.Errorf("Report = %+v, want {10 9 9 2015}", rep)
	}

	marstCol, _ := out.Lookup("marst")
	for i := 0; i < out.NumRows(); i++ {
		if marstCol.Value(i) == "99" {
			t.Errorf("row %d kept marst code 99", i)
		}
	}

	// Input order survives around the dropped row.
	idCol, _ := out.Lookup("pumfid")
	want := []string{"p0", "p1", "p2", "p4", "p5", "p6", "p7", "p8", "p9"}
	for i, w := range want {
		if got := idCol.Value(i); got != w {
			t.Errorf("pumfid[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestApply_EverySentinelColumn(t *testing.T) {
	for name, code := range harmonize.MissingCodes {
		t.Run(name, func(t *testing.T) {
			in := surveyTable(3, "2016", map[string][]string{
				name: {"1", code, "2"},
			})

			out, _, err := harmonize.Apply(in)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if out.NumRows() != 2 {
				t.Fatalf("NumRows() = %d, want 2", out.NumRows())
			}
			col, _ := out.Lookup(name)
			for i := 0; i < out.NumRows(); i++ {
				if col.Value(i) == code {
					t.Errorf("row %d kept %s code %s", i, name, code)
				}
			}
		})
	}
}

func TestApply_RenamedColumns(t *testing.T) {
	// 2018+ releases ship marstp, immstp and yrimmgp instead of the
	// earlier names. The output schema must not differ.
	in := surveyTable(4, "2019", nil)
	renameColumn(in, "marst", "marstp")
	renameColumn(in, "immst", "immstp")
	renameColumn(in, "yrimmg", "yrimmgp")

	out, rep, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !sameNames(out.ColumnNames(), harmonize.Allowlist) {
		t.Errorf("ColumnNames() = %v, want the allowlist in order", out.ColumnNames())
	}
	if rep.RowsKept != 4 {
		t.Errorf("RowsKept = %d, want 4", rep.RowsKept)
	}
}

func TestApply_UppercaseNames(t *testing.T) {
	in := surveyTable(2, "2019", nil)
	for i := range in.Columns {
		in.Columns[i].Name = strings.ToUpper(in.Columns[i].Name)
	}
	renameColumn(in, "MARST", "MARSTP")

	out, _, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !sameNames(out.ColumnNames(), harmonize.Allowlist) {
		t.Errorf("ColumnNames() = %v, want lowercased canonical names", out.ColumnNames())
	}
}

func TestApply_DuplicateAfterRename(t *testing.T) {
	in := surveyTable(2, "2019", nil)
	addColumn(in, "marstp", []string{"1", "2"})

	_, _, err := harmonize.Apply(in)
	if err == nil {
		t.Fatal("Apply() should fail when a file carries both marst and marstp")
	}
	if !errors.Is(err, cispumf.ErrSchema) {
		t.Errorf("error = %v, want ErrSchema", err)
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error %q should mention the duplicate", err)
	}
}

func TestApply_MissingColumns(t *testing.T) {
	in := surveyTable(2, "2015", nil)
	dropColumn(in, "suit")
	dropColumn(in, "rentm")

	_, _, err := harmonize.Apply(in)
	if err == nil {
		t.Fatal("Apply() should fail when allowlist columns are absent")
	}
	if !errors.Is(err, cispumf.ErrSchema) {
		t.Errorf("error = %v, want ErrSchema", err)
	}
	for _, name := range []string{"suit", "rentm"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should name missing column %s", err, name)
		}
	}
}

func TestApply_AgeGroupsByYear(t *testing.T) {
	tests := []struct {
		year string
		code string
		kept bool
	}{
		{"2012", "07", true},
		{"2012", "06", false},
		{"2015", "15", true},
		{"2017", "15", true},
		{"2018", "15", false},
		{"2018", "06", true},
		{"2020", "05", false},
		{"2020", "08", true},
		// Years outside 2012..2017 use the post-2018 coding, before and after.
		{"2011", "06", true},
		{"2011", "15", false},
		{"2030", "14", true},
		{"2030", "15", false},
	}

	for _, tt := range tests {
		t.Run(tt.year+"_"+tt.code, func(t *testing.T) {
			in := surveyTable(1, tt.year, map[string][]string{"agegp": {tt.code}})

			out, _, err := harmonize.Apply(in)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			want := 0
			if tt.kept {
				want = 1
			}
			if out.NumRows() != want {
				t.Errorf("year %s agegp %s: NumRows() = %d, want %d", tt.year, tt.code, out.NumRows(), want)
			}
		})
	}
}

func TestApply_Year2020InvalidAgeGroupDropped(t *testing.T) {
	in := surveyTable(2, "2020", map[string][]string{"agegp": {"05", "08"}})

	out, rep, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1", out.NumRows())
	}
	col, _ := out.Lookup("agegp")
	if got := col.Value(0); got != "08" {
		t.Errorf("surviving agegp = %q, want %q", got, "08")
	}
	if rep.RowsRead != 2 || rep.RowsAfterMissing != 2 || rep.RowsKept != 1 {
		t.Errorf("Report = %+v, want {2 2 1 2020}", rep)
	}
}

func TestApply_NumericSentinelMatches(t *testing.T) {
	in := surveyTable(3, "2015", nil)
	setNumeric(in, "marst", []float64{1, 99, 2}, nil)

	out, _, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2: a numeric 99 must match the code", out.NumRows())
	}
}

func TestApply_MaskedSentinelCellKeepsRow(t *testing.T) {
	in := surveyTable(2, "2015", nil)
	setNumeric(in, "marst", []float64{1, 0}, []bool{false, true})

	out, _, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2: a masked cell is not a missing code", out.NumRows())
	}
	col, _ := out.Lookup("marst")
	if !col.IsMissing(1) {
		t.Error("mask lost on surviving row")
	}
}

func TestApply_NumericAgeGroupZeroPadded(t *testing.T) {
	in := surveyTable(2, "2020", nil)
	setNumeric(in, "agegp", []float64{8, 5}, nil)

	out, _, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1: numeric 8 must match code 08", out.NumRows())
	}
}

func TestApply_NumericYear(t *testing.T) {
	in := surveyTable(1, "0", map[string][]string{"agegp": {"15"}})
	setNumeric(in, "year", []float64{2015}, nil)

	out, rep, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if rep.Year != 2015 {
		t.Errorf("Report.Year = %d, want 2015", rep.Year)
	}
	if out.NumRows() != 1 {
		t.Errorf("NumRows() = %d, want 1: 2015 uses the earlier coding where 15 is valid", out.NumRows())
	}
}

func TestApply_MixedYears(t *testing.T) {
	in := surveyTable(3, "2014", map[string][]string{"year": {"2014", "2014", "2015"}})

	_, _, err := harmonize.Apply(in)
	if err == nil {
		t.Fatal("Apply() should fail on mixed reference years")
	}
	if !errors.Is(err, cispumf.ErrMixedYears) {
		t.Errorf("error = %v, want ErrMixedYears", err)
	}
	for _, y := range []string{"2014", "2015"} {
		if !strings.Contains(err.Error(), y) {
			t.Errorf("error %q should name year %s", err, y)
		}
	}
}

func TestApply_YearAllMasked(t *testing.T) {
	in := surveyTable(2, "0", nil)
	setNumeric(in, "year", []float64{0, 0}, []bool{true, true})

	_, _, err := harmonize.Apply(in)
	if err == nil {
		t.Fatal("Apply() should fail when no row carries a year")
	}
	if !errors.Is(err, cispumf.ErrSchema) {
		t.Errorf("error = %v, want ErrSchema", err)
	}
}

func TestApply_YearNotInteger(t *testing.T) {
	in := surveyTable(1, "early", nil)

	_, _, err := harmonize.Apply(in)
	if err == nil {
		t.Fatal("Apply() should fail on a non-integer year")
	}
	if !errors.Is(err, cispumf.ErrSchema) {
		t.Errorf("error = %v, want ErrSchema", err)
	}
}

func TestApply_EmptyFile(t *testing.T) {
	in := surveyTable(0, "2015", nil)

	out, rep, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.NumRows() != 0 {
		t.Errorf("NumRows() = %d, want 0", out.NumRows())
	}
	if !sameNames(out.ColumnNames(), harmonize.Allowlist) {
		t.Errorf("ColumnNames() = %v, want the allowlist even for an empty file", out.ColumnNames())
	}
	if rep != (harmonize.Report{}) {
		t.Errorf("Report = %+v, want zero value", rep)
	}
}

func TestApply_KeepsNumericColumnsNumeric(t *testing.T) {
	in := surveyTable(3, "2016", map[string][]string{"marst": {"1", "99", "2"}})
	setNumeric(in, "ttinc", []float64{41000, 12000, 87500.5}, nil)

	out, _, err := harmonize.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	ttinc, _ := out.Lookup("ttinc")
	if !ttinc.IsNumeric() {
		t.Fatal("ttinc should stay numeric through row filtering")
	}
	want := []float64{41000, 87500.5}
	if len(ttinc.Floats) != len(want) {
		t.Fatalf("ttinc has %d rows, want %d", len(ttinc.Floats), len(want))
	}
	for i, w := range want {
		if ttinc.Floats[i] != w {
			t.Errorf("ttinc[%d] = %v, want %v", i, ttinc.Floats[i], w)
		}
	}
}
