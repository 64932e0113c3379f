package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-flattener/internal/logger"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// clearEnv blanks the override variables so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"INVOICES_INPUT_FILE", "INVOICES_EXPIRED_FILE", "INVOICES_OUTPUT_FILE",
		"INVOICES_XLSX_FILE", "INVOICES_XML_FILE", "INVOICES_LOG_DIR", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	clearEnv(t)
	cfg := Default()

	assert.Equal(t, "./data/invoices.json", cfg.InputFile)
	assert.Equal(t, "./data/expired_invoices.txt", cfg.ExpiredFile)
	assert.Equal(t, "./data/transformed_invoices.csv", cfg.OutputFile)
	assert.Empty(t, cfg.XLSXFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())

	logDefaults := logger.DefaultConfig()
	assert.Equal(t, logDefaults, cfg.GetLoggerConfig())
}

func TestLoadMainConfig(t *testing.T) {
	clearEnv(t)

	t.Run("reads values and fills defaults", func(t *testing.T) {
		path := writeConfig(t, `
input_file: in/invoices.json
output_file: out/report_{date}.csv
xlsx_file: out/report.xlsx
write_error_log: true
log_format: json
`)
		cfg, err := LoadMainConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "in/invoices.json", cfg.InputFile)
		assert.Equal(t, "out/report_{date}.csv", cfg.OutputFile)
		assert.Equal(t, "out/report.xlsx", cfg.XLSXFile)
		assert.True(t, cfg.WriteErrorLog)
		assert.False(t, cfg.WriteSummary)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "./data/expired_invoices.txt", cfg.ExpiredFile)
		assert.Equal(t, "./logs", cfg.LogDir)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("INVOICES_INPUT_FILE", "env.json")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := LoadMainConfig(writeConfig(t, "input_file: file.json\n"))
		require.NoError(t, err)
		assert.Equal(t, "env.json", cfg.InputFile)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("missing file wraps ErrNotExist", func(t *testing.T) {
		_, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadMainConfig(writeConfig(t, "input_file: [unterminated\n"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := LoadMainConfig(writeConfig(t, "log_level: chatty\n"))
		assert.ErrorContains(t, err, "log_level")

		_, err = LoadMainConfig(writeConfig(t, "output_file: a.out\nxlsx_file: a.out\n"))
		assert.ErrorContains(t, err, "xlsx_file")

		_, err = LoadMainConfig(writeConfig(t, "output_file: a.out\nxml_file: a.out\n"))
		assert.ErrorContains(t, err, "xml_file")
	})
}

func TestGetLoggerConfig(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.LogOutput = "stdout"

	lc := cfg.GetLoggerConfig()
	assert.Equal(t, cfg.LogLevel, lc.Level)
	assert.Equal(t, "stdout", lc.Output)
	assert.Equal(t, cfg.LogTimeFormat, lc.TimeFormat)
}
