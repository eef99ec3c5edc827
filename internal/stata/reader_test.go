package stata_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/microdata-tools/cispumf/internal/stata"
	testhelpers "github.com/microdata-tools/cispumf/internal/testing"
	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

func TestReadTable_StringAndNumericColumns(t *testing.T) {
	raw := testhelpers.BuildDTA115([]testhelpers.DTAColumn{
		{Name: "marstp", Strings: []string{"1", "2", "99"}},
		{Name: "ttinc", Floats: []float64{41000, 0, 87500.5}},
	})

	table, err := stata.ReadTable(bytes.NewReader(raw), "cis2019.dta")
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}

	if got := table.ColumnNames(); len(got) != 2 || got[0] != "marstp" || got[1] != "ttinc" {
		t.Fatalf("ColumnNames() = %v, want [marstp ttinc]", got)
	}
	if table.NumRows() != 3 {
		t.Fatalf("NumRows() = %d, want 3", table.NumRows())
	}

	marstp, ok := table.Lookup("marstp")
	if !ok {
		t.Fatal("Lookup(marstp) not found")
	}
	if marstp.IsNumeric() {
		t.Error("marstp should be a string column")
	}
	for i, want := range []string{"1", "2", "99"} {
		if got := marstp.Value(i); got != want {
			t.Errorf("marstp.Value(%d) = %q, want %q", i, got, want)
		}
	}

	ttinc, ok := table.Lookup("ttinc")
	if !ok {
		t.Fatal("Lookup(ttinc) not found")
	}
	if !ttinc.IsNumeric() {
		t.Error("ttinc should be a numeric column")
	}
	for i, want := range []float64{41000, 0, 87500.5} {
		if got := ttinc.Floats[i]; got != want {
			t.Errorf("ttinc.Floats[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestReadTable_NumericMissing(t *testing.T) {
	raw := testhelpers.BuildDTA115([]testhelpers.DTAColumn{
		{Name: "gtr", Floats: []float64{1200, 0, 0}, Missing: []bool{false, false, true}},
	})

	table, err := stata.ReadTable(bytes.NewReader(raw), "cis2014.dta")
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}

	gtr := &table.Columns[0]
	if gtr.IsMissing(0) || gtr.IsMissing(1) {
		t.Error("unmasked cells reported as missing")
	}
	if !gtr.IsMissing(2) {
		t.Error("masked cell not reported as missing")
	}
	if got := gtr.Value(1); got != "0" {
		t.Errorf("Value(1) = %q, want %q", got, "0")
	}
	if got := gtr.Value(2); got != "" {
		t.Errorf("Value(2) = %q, want empty for masked cell", got)
	}
}

func TestReadTable_IntegralFloatsRenderWithoutDecimal(t *testing.T) {
	raw := testhelpers.BuildDTA115([]testhelpers.DTAColumn{
		{Name: "marst", Floats: []float64{1, 99}},
	})

	table, err := stata.ReadTable(bytes.NewReader(raw), "cis2014.dta")
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}

	if got := table.Columns[0].Value(1); got != "99" {
		t.Errorf("Value(1) = %q, want %q", got, "99")
	}
}

func TestReadTable_MultipleChunks(t *testing.T) {
	// Larger than one 1000-row read so the chunk loop runs more than once.
	const nrows = 1500
	ids := make([]string, nrows)
	weights := make([]float64, nrows)
	for i := 0; i < nrows; i++ {
		ids[i] = fmt.Sprintf("p%04d", i)
		weights[i] = float64(i) + 0.5
	}

	raw := testhelpers.BuildDTA115([]testhelpers.DTAColumn{
		{Name: "pumfid", Strings: ids},
		{Name: "fweight", Floats: weights},
	})

	table, err := stata.ReadTable(bytes.NewReader(raw), "cis2018.dta")
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}

	if table.NumRows() != nrows {
		t.Fatalf("NumRows() = %d, want %d", table.NumRows(), nrows)
	}
	for _, i := range []int{0, 999, 1000, nrows - 1} {
		if got := table.Columns[0].Value(i); got != ids[i] {
			t.Errorf("pumfid row %d = %q, want %q", i, got, ids[i])
		}
		if got := table.Columns[1].Floats[i]; got != weights[i] {
			t.Errorf("fweight row %d = %v, want %v", i, got, weights[i])
		}
	}
}

func TestReadTable_ZeroRows(t *testing.T) {
	raw := testhelpers.BuildDTA115([]testhelpers.DTAColumn{
		{Name: "year", Strings: []string{}},
		{Name: "ttinc", Floats: []float64{}},
	})

	table, err := stata.ReadTable(bytes.NewReader(raw), "cis2099.dta")
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}

	if table.NumRows() != 0 {
		t.Errorf("NumRows() = %d, want 0", table.NumRows())
	}
	if got := table.ColumnNames(); len(got) != 2 || got[0] != "year" || got[1] != "ttinc" {
		t.Errorf("ColumnNames() = %v, want [year ttinc]", got)
	}
}

func TestReadTable_UnsupportedExtension(t *testing.T) {
	_, err := stata.ReadTable(bytes.NewReader([]byte("a,b\n1,2\n")), "cis2019.csv")
	if err == nil {
		t.Fatal("ReadTable(.csv) should return error")
	}
	if !errors.Is(err, cispumf.ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestReadTable_CorruptStataFile(t *testing.T) {
	_, err := stata.ReadTable(bytes.NewReader([]byte{0xFF, 0x00, 0x01, 0x02}), "broken.dta")
	if err == nil {
		t.Fatal("ReadTable(corrupt dta) should return error")
	}
	if !errors.Is(err, cispumf.ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestReadTable_CorruptSASFile(t *testing.T) {
	_, err := stata.ReadTable(bytes.NewReader(make([]byte, 64)), "broken.sas7bdat")
	if err == nil {
		t.Fatal("ReadTable(corrupt sas7bdat) should return error")
	}
	if !errors.Is(err, cispumf.ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}
