package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

var initCmd = &cobra.Command{
	Use:   "init <data_dir>",
	Short: "Initialize a survey data directory",
	Long: `Initialize a data directory with a starter cispumf.yaml.

The init command creates the directory if needed and writes a commented
cispumf.yaml covering the file pattern, export output, PostgreSQL
connection defaults, and the ingest timeout. Every setting starts
commented out, so the file documents the defaults without changing them.

An existing cispumf.yaml is never overwritten.

Examples:
  cispumf init ./data            # Prepare ./data for PUMF files
  cispumf init .                 # Initialize the current directory`,
	Args:              RequireDataDir,
	ValidArgsFunction: completeDirectories,
	RunE:              runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// starterConfig is the cispumf.yaml written by init. Keys match what
// config.Load reads; commented entries show the built-in defaults.
const starterConfig = `# cispumf project configuration.
# CLI flags and environment variables override anything set here.

# Filename glob matched within this directory.
pattern: "*.dta"

# Where export writes when -o is not given.
#output:
#  format: parquet
#  path: combined.parquet

# Connection defaults for ingest. The password never belongs in this
# file; use $PGPASSWORD or a .pgpass entry.
#postgres:
#  host: localhost
#  port: 5432
#  username: analyst
#  database: surveys
#  sslmode: prefer
#  table: cis_pumf

# Catastrophic failure protection timeout for ingest runs.
#timeout: 3m
`

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := args[0]
	verbose := getVerboseFlag(cmd)

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", targetDir, err)
	}

	configPath := filepath.Join(targetDir, "cispumf.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite: %w", configPath, cispumf.ErrInvalidConfig)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Writing starter config to: %s\n", configPath)
	}

	if err := os.WriteFile(configPath, []byte(starterConfig), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", configPath)
	fmt.Fprintln(os.Stderr, "\nNext steps:")
	fmt.Fprintf(os.Stderr, "  # Drop the PUMF files (*.dta) into %s, then:\n", targetDir)
	fmt.Fprintf(os.Stderr, "  cispumf export %s -o combined.csv\n", targetDir)
	fmt.Fprintf(os.Stderr, "  # Or load them into PostgreSQL:\n")
	fmt.Fprintf(os.Stderr, "  cispumf ingest %s -d surveys\n", targetDir)

	return nil
}
