package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cispumf",
	Short: "Canadian Income Survey PUMF loader",
	Long: `cispumf loads Canadian Income Survey public use microdata files, harmonizes
the schema differences between survey years, and concatenates everything into
one analysis table.

Variable renames and the age group recode are folded away per reference year,
rows carrying not-stated codes are dropped, and every run yields the same
canonical column set. The combined table can be written to CSV or Parquet or
loaded into a PostgreSQL table.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Data directory not found
  12 - A survey file could not be parsed
  13 - Schema mismatch or mixed survey years
  14 - Database connection failed
  15 - Database ingest failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// The standalone --help flag keeps -h free for --host on ingest.
	rootCmd.PersistentFlags().Bool("help", false, "Help for cispumf")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
