// Package stata parses Stata dta and SAS sas7bdat survey files into tables.
//
// Parsing is delegated to github.com/kshedden/datareader. Numeric series are
// upcast to float64 so every table column is either string or float64 typed,
// and SAS date series are rendered as text. System-missing cells keep their
// mask and never leak sentinel float values into the data.
package stata

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/kshedden/datareader"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// chunkRows is the number of rows requested per Read call.
const chunkRows = 1000

// statReader is the subset of the datareader API shared by the Stata and
// SAS parsers.
type statReader interface {
	ColumnNames() []string
	Read(int) ([]*datareader.Series, error)
}

// ReadTable parses the survey file held in r into a Table. The parser is
// chosen by the extension of path: .dta selects the Stata parser and
// .sas7bdat the SAS parser. Any other extension returns ErrParse.
func ReadTable(r io.ReadSeeker, path string) (*cispumf.Table, error) {
	rdr, err := open(r, path)
	if err != nil {
		return nil, err
	}

	names := rdr.ColumnNames()
	cols := make([]cispumf.Column, len(names))
	for j, name := range names {
		cols[j] = cispumf.Column{Name: name}
	}

	for {
		chunk, err := rdr.Read(chunkRows)
		if errors.Is(err, io.EOF) {
			// The SAS parser signals exhaustion with io.EOF.
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cispumf.ErrParse, err)
		}
		if chunk == nil {
			// The Stata parser signals exhaustion with a nil chunk.
			break
		}
		if len(chunk) != len(names) {
			return nil, fmt.Errorf("%w: parser returned %d columns, header declares %d", cispumf.ErrParse, len(chunk), len(names))
		}

		for j := range chunk {
			if err := appendChunk(&cols[j], chunk[j]); err != nil {
				return nil, fmt.Errorf("%w: column %q: %w", cispumf.ErrParse, names[j], err)
			}
		}
	}

	// A zero-row file produces no chunks; give its columns a concrete type.
	for j := range cols {
		if cols[j].Strings == nil && cols[j].Floats == nil {
			cols[j].Strings = []string{}
			cols[j].Missing = []bool{}
		}
	}

	return &cispumf.Table{Columns: cols}, nil
}

func open(r io.ReadSeeker, path string) (statReader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".dta":
		rdr, err := datareader.NewStataReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cispumf.ErrParse, err)
		}
		return rdr, nil
	case ".sas7bdat":
		rdr, err := datareader.NewSAS7BDATReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cispumf.ErrParse, err)
		}
		rdr.TrimStrings = true
		rdr.ConvertDates = true
		return rdr, nil
	default:
		return nil, fmt.Errorf("%w: unsupported survey file type %q", cispumf.ErrParse, ext)
	}
}

// appendChunk appends one series of parsed values to col. The parsers keep
// a fixed type per column across chunks, so a type change mid-file is a
// parse failure.
func appendChunk(col *cispumf.Column, ser *datareader.Series) error {
	ser = ser.UpcastNumeric()
	miss := ser.Missing()

	switch data := ser.Data().(type) {
	case []float64:
		if col.Strings != nil {
			return errors.New("numeric chunk for string column")
		}
		col.Floats = append(col.Floats, data...)
	case []string:
		if col.Floats != nil {
			return errors.New("string chunk for numeric column")
		}
		col.Strings = append(col.Strings, data...)
	case []time.Time:
		if col.Floats != nil {
			return errors.New("date chunk for numeric column")
		}
		rendered := ser.ToString()
		col.Strings = append(col.Strings, rendered.Data().([]string)...)
		miss = rendered.Missing()
	default:
		return fmt.Errorf("unhandled series type %T", data)
	}

	if miss == nil {
		miss = make([]bool, ser.Length())
	}
	col.Missing = append(col.Missing, miss...)
	return nil
}
