package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/microdata-tools/cispumf/internal/export"
	"github.com/microdata-tools/cispumf/internal/files/filesystem"
	"github.com/microdata-tools/cispumf/internal/loader"
	"github.com/microdata-tools/cispumf/internal/logging"
	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

var exportCmd = &cobra.Command{
	Use:   "export <data_dir>",
	Short: "Combine survey files and write CSV or Parquet",
	Long: `Export loads every survey file in the directory and writes the combined
harmonized table to a file or standard output.

The export command:
1. Globs the data directory for survey files (default pattern *.dta)
2. Parses each file and harmonizes it to the canonical column set
3. Drops rows carrying not-stated codes or out-of-range age groups
4. Concatenates the per-file tables in discovery order
5. Writes the result as CSV or Parquet

Arguments:
  data_dir    Directory containing the PUMF files, one per survey year

Examples:
  # Combined table as CSV on stdout
  cispumf export ./data

  # Parquet file for columnar analysis
  cispumf export ./data --format parquet -o combined.parquet

  # Only specific releases
  cispumf export ./data --pattern "cis_201*.dta" -o panel.csv`,
	Args:              RequireDataDir,
	ValidArgsFunction: completeDirectories,
	RunE:              runExport,
}

type exportFlagValues struct {
	pattern string
	format  string
	output  string
}

var exportFlags exportFlagValues

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.pattern, "pattern", "",
		"Filename glob matched within <data_dir>\n"+
			"Precedence: --pattern > $CISPUMF_PATTERN > cispumf.yaml > *.dta")
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "",
		"Output format: csv|parquet\n"+
			"(default: inferred from --output extension, falling back to csv)")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "",
		"Output file path, or - for standard output\n"+
			"(default: -, or cispumf.yaml output.path)")

	_ = exportCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

// buildExportConfig builds an ExportConfig from CLI flags, environment, and
// cispumf.yaml. Extracted for testability.
func buildExportConfig(dataDir string, verbose bool) (cispumf.ExportConfig, error) {
	projectCfg, err := loadProjectConfig(dataDir)
	if err != nil {
		return cispumf.ExportConfig{}, err
	}

	output := exportFlags.output
	if output == "" && projectCfg != nil {
		output = projectCfg.Output.Path
	}
	if output == "" {
		output = "-"
	}

	// Format precedence: flag > cispumf.yaml > output file extension > csv.
	format := exportFlags.format
	if format == "" && projectCfg != nil {
		format = projectCfg.Output.Format
	}
	if format == "" {
		if strings.EqualFold(filepath.Ext(output), ".parquet") {
			format = string(export.FormatParquet)
		} else {
			format = string(export.FormatCSV)
		}
	}

	config := cispumf.ExportConfig{
		Load: cispumf.LoadConfig{
			DataDir: dataDir,
			Pattern: resolvePattern(exportFlags.pattern, projectCfg),
			Verbose: verbose,
		},
		Format:     format,
		OutputPath: output,
	}

	if err := config.Validate(); err != nil {
		return cispumf.ExportConfig{}, err
	}
	return config, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	dataDir := args[0]
	verbose := getVerboseFlag(cmd)

	config, err := buildExportConfig(dataDir, verbose)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(config.Format)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	svc := loader.NewService(filesystem.NewOSFileSystem(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling export...")
		cancel()
	}()

	table, err := svc.Load(ctx, config.Load)
	if err != nil {
		return err
	}

	if err := writeExport(table, format, config.OutputPath); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	dest := config.OutputPath
	if dest == "-" {
		dest = "stdout"
	}
	logger.Info("✓ Exported %d row(s) to %s", table.NumRows(), dest)
	return nil
}

// writeExport renders the table to the output path, with - meaning stdout.
func writeExport(table *cispumf.Table, format export.Format, outputPath string) error {
	if outputPath == "-" {
		return export.Write(os.Stdout, table, format)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	if err := export.Write(f, table, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
