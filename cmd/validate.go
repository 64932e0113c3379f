// =============================================================================
// Invoice Flattener - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It runs the transform in dry-run
// mode and lists every diagnostic, without writing any file.
//
// COMMAND USAGE:
//   invoices validate [--input f] [--expired f]
//
// EXIT STATUS:
//   0 when the input can be read, even if diagnostics were found.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-flattener/internal/config"
	"github.com/ginjaninja78/invoice-flattener/internal/converter"
	"github.com/ginjaninja78/invoice-flattener/internal/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the input data without writing a report",
	Long: `The validate command loads and transforms the invoices exactly like
transform, then prints every problem found instead of writing the report.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		applyFlagOverrides(cmd, mainConfig)
		mainConfig.DryRun = true
		if err := mainConfig.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return runValidate(mainConfig)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	registerInputFlags(validateCmd)
}

func runValidate(cfg *config.MainConfig) error {
	result := converter.New(cfg, logger.WithComponent("validate")).Run()
	if !result.Success {
		return result.Error
	}

	fmt.Printf("Invoices: %d, rows: %d, diagnostics: %d\n",
		result.Stats.InvoicesRead, len(result.Rows), len(result.Diagnostics))
	if len(result.Diagnostics) == 0 {
		fmt.Println("No problems found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tINVOICE\tITEM\tFIELD\tVALUE\tMESSAGE")
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", d.Kind, d.InvoiceID, d.ItemID, d.Field, d.Value, d.Message)
	}
	return w.Flush()
}
