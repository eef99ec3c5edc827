package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// RequireDataDir validates that exactly one data_dir argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireDataDir(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`%w: missing required argument <data_dir>

Usage: %s

Example:
  %s ./data`, cispumf.ErrUsage, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: accepts 1 arg(s), received %d", cispumf.ErrUsage, len(args))
	}
	return nil
}

// RequireSurveyFile validates that exactly one file argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireSurveyFile(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`%w: missing required argument <file>

Usage: %s

Example:
  %s ./data/cis_2019.dta`, cispumf.ErrUsage, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: accepts 1 arg(s), received %d", cispumf.ErrUsage, len(args))
	}
	return nil
}
