package testing

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// StataMissingDouble is the bit pattern Stata writes for the
// system-missing double "." (2^1023).
const StataMissingDouble = 8.98846567431158e307

// DTAColumn describes one column of a generated Stata test file.
// Exactly one of Strings or Floats must be set. Missing masks cells of a
// Floats column; string columns have no missing concept in the dta format.
type DTAColumn struct {
	Name    string
	Strings []string
	Floats  []float64
	Missing []bool
}

func (c *DTAColumn) rows() int {
	if c.Strings != nil {
		return len(c.Strings)
	}
	return len(c.Floats)
}

// BuildDTA115 renders the columns as a Stata dta version 115 file,
// little-endian, with no value labels attached. It panics on a malformed
// fixture description since that is always an authoring mistake.
func BuildDTA115(cols []DTAColumn) []byte {
	if len(cols) == 0 {
		panic("BuildDTA115: no columns")
	}

	nrows := cols[0].rows()
	widths := make([]int, len(cols))
	for j := range cols {
		c := &cols[j]
		if (c.Strings == nil) == (c.Floats == nil) {
			panic(fmt.Sprintf("BuildDTA115: column %q must set exactly one of Strings or Floats", c.Name))
		}
		if c.rows() != nrows {
			panic(fmt.Sprintf("BuildDTA115: column %q has %d rows, want %d", c.Name, c.rows(), nrows))
		}
		if len(c.Name) == 0 || len(c.Name) > 32 {
			panic(fmt.Sprintf("BuildDTA115: column name %q must be 1..32 bytes", c.Name))
		}
		if c.Missing != nil && len(c.Missing) != nrows {
			panic(fmt.Sprintf("BuildDTA115: column %q mask has %d entries, want %d", c.Name, len(c.Missing), nrows))
		}
		if c.Strings != nil {
			w := 1
			for _, s := range c.Strings {
				if len(s) > w {
					w = len(s)
				}
			}
			if w > 244 {
				panic(fmt.Sprintf("BuildDTA115: column %q string value exceeds 244 bytes", c.Name))
			}
			widths[j] = w
		}
	}

	le := binary.LittleEndian
	buf := new(bytes.Buffer)

	// Header
	buf.WriteByte(115) // format version
	buf.WriteByte(2)   // LSF byte order
	buf.WriteByte(1)   // filetype
	buf.WriteByte(0)   // unused
	binary.Write(buf, le, int16(len(cols)))
	binary.Write(buf, le, int32(nrows))
	buf.Write(padded("survey extract test data", 81))
	buf.Write(padded("25 Aug 2026 12:00", 18))

	// Variable types: 1..244 is a string width, 255 is double
	for j := range cols {
		if cols[j].Floats != nil {
			buf.WriteByte(255)
		} else {
			buf.WriteByte(byte(widths[j]))
		}
	}

	// Variable names, 33 bytes each
	for j := range cols {
		buf.Write(padded(cols[j].Name, 33))
	}

	// Sort list, 2*(nvar+1) bytes
	buf.Write(make([]byte, 2*(len(cols)+1)))

	// Display formats, 49 bytes each
	for j := range cols {
		if cols[j].Floats != nil {
			buf.Write(padded("%9.0g", 49))
		} else {
			buf.Write(padded(fmt.Sprintf("%%%ds", widths[j]), 49))
		}
	}

	// Value label names (none), 33 bytes each
	buf.Write(make([]byte, 33*len(cols)))

	// Variable labels (none), 81 bytes each
	buf.Write(make([]byte, 81*len(cols)))

	// Expansion field terminator
	buf.Write(make([]byte, 5))

	// Data, row major
	for i := 0; i < nrows; i++ {
		for j := range cols {
			c := &cols[j]
			if c.Floats != nil {
				v := c.Floats[i]
				if c.Missing != nil && c.Missing[i] {
					v = StataMissingDouble
				}
				binary.Write(buf, le, v)
			} else {
				buf.Write(padded(c.Strings[i], widths[j]))
			}
		}
	}

	return buf.Bytes()
}

// padded returns s null-padded to exactly n bytes.
func padded(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}
