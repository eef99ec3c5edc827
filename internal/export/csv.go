package export

import (
	"encoding/csv"
	"io"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// WriteCSV writes the table as CSV with a header row of column names.
// Numeric cells use the canonical rendering (integral codes carry no
// decimal point) and masked cells become empty fields.
func WriteCSV(w io.Writer, t *cispumf.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}

	row := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j := range t.Columns {
			row[j] = t.Columns[j].Value(i)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
