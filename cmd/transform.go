// =============================================================================
// Invoice Flattener - Transform Command
// =============================================================================
//
// This file defines the 'transform' command, which runs the whole pipeline
// and writes the report.
//
// COMMAND USAGE:
//   invoices transform [flags]
//
// FLAGS:
//   --input    : Path to the JSON invoice blob
//   --expired  : Path to the expired invoice list
//   --output   : Path of the CSV report (placeholders allowed)
//   --xlsx     : Path of an optional spreadsheet copy
//   --xml      : Path of an optional XML copy, grouped by invoice
//   --dry-run  : Transform without writing any file
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-flattener/internal/config"
	"github.com/ginjaninja78/invoice-flattener/internal/converter"
	"github.com/ginjaninja78/invoice-flattener/internal/logger"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputFile   string
	expiredFile string
	outputFile  string
	xlsxFile    string
	xmlFile     string
	dryRun      bool
)

// =============================================================================
// TRANSFORM COMMAND DEFINITION
// =============================================================================

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Flatten the invoice blob into a CSV report",
	Long: `The transform command loads the invoices and the expired invoice list,
flattens every line item into a report row, and writes the rows sorted by
invoice id and item id.

Recoverable problems (bad dates, missing items, non-numeric prices or
quantities) are logged and skipped. The command fails only when the input
cannot be read or the report cannot be written.

When write_error_log or write_summary are enabled in the configuration,
a diagnostics log and a run summary are written to log_dir.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		applyFlagOverrides(cmd, mainConfig)
		mainConfig.DryRun = dryRun
		if err := mainConfig.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return runTransform(mainConfig)
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)

	registerInputFlags(transformCmd)

	transformCmd.Flags().StringVar(
		&outputFile,
		"output",
		"",
		"Path of the CSV report (overrides output_file)",
	)

	transformCmd.Flags().StringVar(
		&xlsxFile,
		"xlsx",
		"",
		"Path of a spreadsheet copy of the report (overrides xlsx_file)",
	)

	transformCmd.Flags().StringVar(
		&xmlFile,
		"xml",
		"",
		"Path of an XML copy of the report (overrides xml_file)",
	)

	transformCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Transform without writing any output files",
	)
}

// registerInputFlags adds the flags shared by every command that reads input.
func registerInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&inputFile,
		"input",
		"",
		"Path to the JSON invoice blob (overrides input_file)",
	)

	cmd.Flags().StringVar(
		&expiredFile,
		"expired",
		"",
		"Path to the expired invoice list (overrides expired_file)",
	)
}

// applyFlagOverrides copies explicitly set flags into cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.MainConfig) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputFile = inputFile
	}
	if flags.Changed("expired") {
		cfg.ExpiredFile = expiredFile
	}
	if flags.Changed("output") {
		cfg.OutputFile = outputFile
	}
	if flags.Changed("xlsx") {
		cfg.XLSXFile = xlsxFile
	}
	if flags.Changed("xml") {
		cfg.XMLFile = xmlFile
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runTransform(cfg *config.MainConfig) error {
	log := logger.WithComponent("transform")

	result := converter.New(cfg, log).Run()
	if !result.Success {
		return result.Error
	}

	printSummary(result)
	return nil
}

// printSummary writes the run outcome to stdout.
func printSummary(result converter.Result) {
	out := os.Stdout
	stats := result.Stats

	fmt.Fprintln(out, "=== Invoice Flattener ===")
	fmt.Fprintf(out, "Run ID:           %s\n", result.RunID)
	fmt.Fprintf(out, "Input:            %s\n", result.InputFile)
	if result.OutputFile != "" {
		fmt.Fprintf(out, "Report:           %s\n", result.OutputFile)
	}
	if result.XLSXFile != "" {
		fmt.Fprintf(out, "Spreadsheet:      %s\n", result.XLSXFile)
	}
	if result.XMLFile != "" {
		fmt.Fprintf(out, "XML:              %s\n", result.XMLFile)
	}
	fmt.Fprintf(out, "Invoices read:    %d\n", stats.InvoicesRead)
	fmt.Fprintf(out, "Invoices skipped: %d\n", stats.InvoicesSkipped)
	fmt.Fprintf(out, "Items read:       %d\n", stats.ItemsRead)
	fmt.Fprintf(out, "Items skipped:    %d\n", stats.ItemsSkipped)
	fmt.Fprintf(out, "Rows:             %d\n", len(result.Rows))
	fmt.Fprintf(out, "Diagnostics:      %d\n", len(result.Diagnostics))
	if result.ErrorLogFile != "" {
		fmt.Fprintf(out, "Diagnostics log:  %s\n", result.ErrorLogFile)
	}
	if result.SummaryFile != "" {
		fmt.Fprintf(out, "Summary:          %s\n", result.SummaryFile)
	}
	fmt.Fprintf(out, "Time elapsed:     %s\n", stats.ProcessingTime)
}
