// =============================================================================
// Invoice Flattener - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// PRECEDENCE (lowest to highest):
//   1. Built-in defaults (applyMainConfigDefaults)
//   2. The YAML config file (config.yaml)
//   3. Environment variables, optionally loaded from a .env file
//   4. Command-line flags (applied by the cmd package)
//
// ENVIRONMENT VARIABLES:
//   INVOICES_INPUT_FILE, INVOICES_EXPIRED_FILE, INVOICES_OUTPUT_FILE,
//   INVOICES_XLSX_FILE, INVOICES_XML_FILE, INVOICES_LOG_DIR, LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/invoice-flattener/internal/logger"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputFile is the JSON blob of invoice records.
	// Default: "./data/invoices.json"
	InputFile string `yaml:"input_file"`

	// ExpiredFile lists expired invoice ids, one per line.
	// A missing file is tolerated.
	// Default: "./data/expired_invoices.txt"
	ExpiredFile string `yaml:"expired_file"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFile is the CSV report path.
	// Placeholders:
	//   {uuid}      - The run id
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	// Default: "./data/transformed_invoices.csv"
	OutputFile string `yaml:"output_file"`

	// XLSXFile is an optional spreadsheet copy of the report.
	// Accepts the same placeholders as OutputFile. Empty disables it.
	XLSXFile string `yaml:"xlsx_file"`

	// XMLFile is an optional XML rendition of the report, grouped by invoice.
	// Accepts the same placeholders as OutputFile. Empty disables it.
	XMLFile string `yaml:"xml_file"`

	// LogDir receives the diagnostics log and the run summary.
	// Default: "./logs"
	LogDir string `yaml:"log_dir"`

	// WriteErrorLog writes every diagnostic to a file under LogDir.
	WriteErrorLog bool `yaml:"write_error_log"`

	// WriteSummary writes a run summary file under LogDir.
	WriteSummary bool `yaml:"write_summary"`

	// DryRun runs the transform without writing any file.
	// Set from the command line only.
	DryRun bool `yaml:"-"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "trace", "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "console" or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// LogOutput is "stdout", "stderr" or a file path.
	// Default: "stderr"
	LogOutput string `yaml:"log_output"`

	// LogTimeFormat is the timestamp layout of log lines.
	// Default: RFC3339
	LogTimeFormat string `yaml:"log_time_format"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no config file exists.
// Environment overrides are applied.
func Default() *MainConfig {
	config := &MainConfig{}
	applyEnvOverrides(config)
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or the result is invalid.
//     A missing file is reported with an error wrapping fs.ErrNotExist.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&config)
	applyMainConfigDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides replaces file values with environment values when set.
func applyEnvOverrides(config *MainConfig) {
	config.InputFile = getEnv("INVOICES_INPUT_FILE", config.InputFile)
	config.ExpiredFile = getEnv("INVOICES_EXPIRED_FILE", config.ExpiredFile)
	config.OutputFile = getEnv("INVOICES_OUTPUT_FILE", config.OutputFile)
	config.XLSXFile = getEnv("INVOICES_XLSX_FILE", config.XLSXFile)
	config.XMLFile = getEnv("INVOICES_XML_FILE", config.XMLFile)
	config.LogDir = getEnv("INVOICES_LOG_DIR", config.LogDir)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnv("LOG_FORMAT", config.LogFormat)
	config.LogOutput = getEnv("LOG_OUTPUT", config.LogOutput)
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputFile == "" {
		config.InputFile = "./data/invoices.json"
	}
	if config.ExpiredFile == "" {
		config.ExpiredFile = "./data/expired_invoices.txt"
	}
	if config.OutputFile == "" {
		config.OutputFile = "./data/transformed_invoices.csv"
	}
	if config.LogDir == "" {
		config.LogDir = "./logs"
	}

	logDefaults := logger.DefaultConfig()
	if config.LogLevel == "" {
		config.LogLevel = logDefaults.Level
	}
	if config.LogFormat == "" {
		config.LogFormat = logDefaults.Format
	}
	if config.LogOutput == "" {
		config.LogOutput = logDefaults.Output
	}
	if config.LogTimeFormat == "" {
		config.LogTimeFormat = logDefaults.TimeFormat
	}
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *MainConfig) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}

	if c.InputFile == "" {
		return fmt.Errorf("input_file is required")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file is required")
	}
	if c.XLSXFile != "" && c.XLSXFile == c.OutputFile {
		return fmt.Errorf("xlsx_file must differ from output_file")
	}
	if c.XMLFile != "" && (c.XMLFile == c.OutputFile || c.XMLFile == c.XLSXFile) {
		return fmt.Errorf("xml_file must differ from output_file and xlsx_file")
	}

	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *MainConfig) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
