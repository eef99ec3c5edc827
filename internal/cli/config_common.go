package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/microdata-tools/cispumf/internal/config"
	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// loadProjectConfig loads godotenv and project configuration.
// Returns nil config if cispumf.yaml does not exist (not an error).
func loadProjectConfig(dataDir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := config.Load(dataDir)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil // Config file not found is not an error
		}
		return nil, fmt.Errorf("failed to load cispumf.yaml: %w", err)
	}
	return projectCfg, nil
}

// resolvePattern returns the effective file pattern.
// Priority (highest to lowest): --pattern flag > $CISPUMF_PATTERN > cispumf.yaml.
// An empty result means the default pattern applies downstream.
func resolvePattern(flagPattern string, projectCfg *config.ProjectConfig) string {
	if flagPattern != "" {
		return flagPattern
	}
	if env := os.Getenv("CISPUMF_PATTERN"); env != "" {
		return env
	}
	if projectCfg != nil {
		return projectCfg.Pattern
	}
	return ""
}

// resolveEffectiveTimeout returns the effective timeout, preferring cispumf.yaml if flag wasn't set.
func resolveEffectiveTimeout(
	cmd *cobra.Command,
	projectCfg *config.ProjectConfig,
	flagTimeout time.Duration,
) (time.Duration, error) {
	if projectCfg != nil && projectCfg.Timeout != "" && !cmd.Flags().Changed("timeout") {
		parsed, err := time.ParseDuration(projectCfg.Timeout)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout in cispumf.yaml: %w", err)
		}
		return parsed, nil
	}
	return flagTimeout, nil
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(connConfig *cispumf.ConnectionConfig) {
	fmt.Fprintf(os.Stderr, "[VERBOSE] Connection resolved:\n")
	fmt.Fprintf(os.Stderr, "  Host: %s\n", connConfig.Host)
	fmt.Fprintf(os.Stderr, "  Port: %d\n", connConfig.Port)
	fmt.Fprintf(os.Stderr, "  User: %s\n", connConfig.Username)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", connConfig.Database)
	fmt.Fprintf(os.Stderr, "  SSL Mode: %s\n", connConfig.SSLMode)
}
