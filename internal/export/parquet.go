package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// WriteParquet writes the table as a Parquet file. String columns map to
// utf8 and numeric columns to float64, all nullable; masked cells become
// nulls. The whole table is written as a single record batch, which is
// fine at survey extract sizes.
func WriteParquet(w io.Writer, t *cispumf.Table) error {
	schema := arrowSchema(t)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for j := range t.Columns {
		col := &t.Columns[j]
		if col.IsNumeric() {
			fb := builder.Field(j).(*array.Float64Builder)
			for i := 0; i < col.Len(); i++ {
				if col.IsMissing(i) {
					fb.AppendNull()
				} else {
					fb.Append(col.Floats[i])
				}
			}
		} else {
			sb := builder.Field(j).(*array.StringBuilder)
			for i := 0; i < col.Len(); i++ {
				if col.IsMissing(i) {
					sb.AppendNull()
				} else {
					sb.Append(col.Strings[i])
				}
			}
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithDictionaryDefault(true),
		parquet.WithCreatedBy("cispumf"),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	fw, err := pqarrow.NewFileWriter(schema, w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if rec.NumRows() > 0 {
		if err := fw.Write(rec); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write parquet record: %w", err)
		}
	}

	return fw.Close()
}

func arrowSchema(t *cispumf.Table) *arrow.Schema {
	fields := make([]arrow.Field, len(t.Columns))
	for j := range t.Columns {
		var typ arrow.DataType = arrow.BinaryTypes.String
		if t.Columns[j].IsNumeric() {
			typ = arrow.PrimitiveTypes.Float64
		}
		fields[j] = arrow.Field{Name: t.Columns[j].Name, Type: typ, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}
