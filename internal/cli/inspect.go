package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microdata-tools/cispumf/internal/files/filesystem"
	"github.com/microdata-tools/cispumf/internal/harmonize"
	"github.com/microdata-tools/cispumf/internal/stata"
	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspect a single survey file",
	Long: `Inspect parses one PUMF file and reports what loading it would do,
without producing a combined table or writing anything.

This command:
1. Parses the file and lists every column with its storage type
2. Marks which columns survive harmonization, and under which canonical name
3. Reports row attrition per filtering step and the file's reference year

Useful for verifying a newly released PUMF before adding it to the data
directory: a renamed variable or a recut code range shows up here first.

Examples:
  # Human-readable report
  cispumf inspect ./data/cis_2019.dta

  # Machine-readable report
  cispumf inspect ./data/cis_2019.dta --json`,
	Args:              RequireSurveyFile,
	ValidArgsFunction: completeSurveyFiles,
	RunE:              runInspect,
}

var inspectJSON bool

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output the report as JSON")
}

// runInspect parses and harmonizes one file and reports the outcome
func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	verbose := getVerboseFlag(cmd)

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Inspecting file: %s\n", path)
		fmt.Fprintf(os.Stderr, "[VERBOSE] JSON output: %v\n", inspectJSON)
	}

	fs := filesystem.NewOSFileSystem()
	raw, err := fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", cispumf.ErrParse, err)
	}

	parsed, err := stata.ReadTable(bytes.NewReader(raw), path)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	type columnEntry struct {
		Name      string `json:"name"`
		Type      string `json:"type"`
		Canonical string `json:"canonical,omitempty"`
		Kept      bool   `json:"kept"`
	}

	keptNames := make(map[string]bool, len(harmonize.Allowlist))
	for _, name := range harmonize.Allowlist {
		keptNames[name] = true
	}

	columns := make([]columnEntry, 0, len(parsed.Columns))
	keptCount := 0
	for i := range parsed.Columns {
		col := &parsed.Columns[i]

		canonical := strings.ToLower(col.Name)
		if renamed, ok := harmonize.Renames[canonical]; ok {
			canonical = renamed
		}

		entry := columnEntry{Name: col.Name, Type: "string", Kept: keptNames[canonical]}
		if col.IsNumeric() {
			entry.Type = "numeric"
		}
		if entry.Kept {
			keptCount++
			if canonical != col.Name {
				entry.Canonical = canonical
			}
		}
		columns = append(columns, entry)
	}

	_, rep, herr := harmonize.Apply(parsed)

	// Output results
	if inspectJSON {
		result := map[string]interface{}{
			"file":          path,
			"columns":       columns,
			"columns_total": len(columns),
			"columns_kept":  keptCount,
			"rows_parsed":   rep.RowsRead,
		}
		if herr == nil {
			result["rows_after_missing_codes"] = rep.RowsAfterMissing
			result["rows_kept"] = rep.RowsKept
			if rep.Year != 0 {
				result["reference_year"] = rep.Year
			}
		} else {
			result["error"] = herr.Error()
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(jsonBytes))
	} else {
		// Human-readable output
		fmt.Fprintf(os.Stderr, "\nInspecting %s\n\n", path)

		nameWidth := len("name")
		for _, entry := range columns {
			if len(entry.Name) > nameWidth {
				nameWidth = len(entry.Name)
			}
		}

		fmt.Fprintf(os.Stderr, "Schema (%d columns, %d kept):\n", len(columns), keptCount)
		for _, entry := range columns {
			disposition := "dropped"
			if entry.Kept {
				disposition = "kept"
				if entry.Canonical != "" {
					disposition = "kept as " + entry.Canonical
				}
			}
			fmt.Fprintf(os.Stderr, "  %-*s  %-7s  %s\n", nameWidth, entry.Name, entry.Type, disposition)
		}
		fmt.Fprintln(os.Stderr)

		fmt.Fprintf(os.Stderr, "Rows:\n")
		fmt.Fprintf(os.Stderr, "  Parsed:              %d\n", rep.RowsRead)
		if herr == nil {
			fmt.Fprintf(os.Stderr, "  After missing codes: %d\n", rep.RowsAfterMissing)
			fmt.Fprintf(os.Stderr, "  After age groups:    %d\n", rep.RowsKept)
			if rep.Year != 0 {
				fmt.Fprintf(os.Stderr, "  Reference year:      %d\n", rep.Year)
			}
		}
		fmt.Fprintln(os.Stderr)

		if herr == nil {
			fmt.Fprintf(os.Stderr, "✓ %s loads cleanly\n", filepath.Base(path))
		} else {
			fmt.Fprintf(os.Stderr, "✗ %s cannot be loaded\n", filepath.Base(path))
		}
	}

	if herr != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), herr)
	}
	return nil
}
