// Package export renders a loaded survey table to interchange formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// Format identifies a supported export encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat maps a user-supplied name to a Format, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "csv":
		return FormatCSV, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: %w", name, cispumf.ErrInvalidConfig)
	}
}

// Write renders the table to w in the given format.
func Write(w io.Writer, t *cispumf.Table, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatParquet:
		return WriteParquet(w, t)
	default:
		return fmt.Errorf("unsupported export format %q: %w", format, cispumf.ErrInvalidConfig)
	}
}
