// =============================================================================
// Invoice Flattener - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (invoices)
//   ├── transformCmd (invoices transform)
//   ├── validateCmd  (invoices validate)
//   └── versionCmd   (invoices version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads config.yaml (or --config), falling back to defaults when the
//      default file does not exist
//   2. Applies --verbose
//   3. Sets up logging
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-flattener/internal/config"
	"github.com/ginjaninja78/invoice-flattener/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig is the configuration loaded by PersistentPreRunE.
var mainConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Invoice Flattener - Flatten nested invoice records into a CSV report",
	Long: `Invoice Flattener reads a JSON blob of invoices, each with a list of line
items, and writes one report row per line item.

Each row carries the invoice id and normalized creation date, the item
details, the line total, its share of the invoice total, and whether the
invoice appears in the expired invoices list.

Malformed values never abort a run: they are logged, the affected field or
item is skipped, and processing continues.

Example Usage:
  invoices transform                          # Use config.yaml or defaults
  invoices transform --input ./in.json -v     # Override the input, debug logs
  invoices transform --xlsx ./out/report.xlsx # Also write a spreadsheet copy
  invoices validate                           # Report problems, write nothing`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		mainConfig = cfg
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// loadConfig reads cfgFile. A missing file is only an error when the user
// named it explicitly.
func loadConfig(explicit bool) (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		cfg = config.Default()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("failed to load main config: %w", err)
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
