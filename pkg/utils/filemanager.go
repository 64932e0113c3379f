// =============================================================================
// Invoice Flattener - File Management Utilities
// =============================================================================
//
// This module provides the file helpers around a run:
//   - Output file naming with placeholders
//   - Diagnostics log generation
//   - Run summary generation
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders of a file name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - The run id (a new UUID if params has none)
//               {timestamp} - Timestamp of now (YYYYMMDD_HHMMSS)
//               {date}      - Date of now (YYYYMMDD)
//               {time}      - Time of now (HHMMSS)
//   - now: The reference time.
//   - params: Additional placeholder values, keyed without braces.
//
// EXAMPLE:
//   format: "reports/invoices_{date}_{uuid}.csv"
//   params: {"uuid": "a1b2c3d4"}
//   output: "reports/invoices_20240115_a1b2c3d4.csv"
func GenerateOutputFileName(format string, now time.Time, params map[string]string) string {
	if !strings.Contains(format, "{") {
		return format
	}

	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}
	if _, ok := replacements["{uuid}"]; !ok {
		replacements["{uuid}"] = uuid.New().String()
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// =============================================================================
// DIAGNOSTICS LOG GENERATION
// =============================================================================

// WriteErrorLog writes diagnostics to a timestamped file in outputDir.
//
// RETURNS:
//   - The path to the log file, or "" when there was nothing to write.
//   - An error if writing fails.
func WriteErrorLog(entries []types.Diagnostic, outputDir, runID string, now time.Time) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := fmt.Sprintf("diagnostics_%s.txt", now.Format("20060102_150405"))
	logPath := filepath.Join(outputDir, logFileName)

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Invoice Flattener - Diagnostics Log\n"+
		"Run ID:    %s\n"+
		"Generated: %s\n"+
		"Total:     %d\n"+
		"================================================================================\n\n",
		runID,
		now.Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Diagnostic #%d\n", i+1)
		fmt.Fprintf(writer, "  Kind:       %s\n", entry.Kind)
		if entry.InvoiceID != "" {
			fmt.Fprintf(writer, "  Invoice:    %s\n", entry.InvoiceID)
		}
		if entry.ItemID != "" {
			fmt.Fprintf(writer, "  Item:       %s\n", entry.ItemID)
		}
		if entry.Field != "" {
			fmt.Fprintf(writer, "  Field:      %s\n", entry.Field)
		}
		if entry.Value != "" {
			fmt.Fprintf(writer, "  Value:      %s\n", entry.Value)
		}
		fmt.Fprintf(writer, "  Message:    %s\n\n", entry.Message)
	}

	writer.WriteString("================================================================================\n" +
		"End of Diagnostics Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a run.
type RunSummary struct {
	RunID           string
	StartTime       time.Time
	EndTime         time.Time
	InputFile       string
	ExpiredFile     string
	OutputFile      string
	XLSXFile        string
	XMLFile         string
	ExpiredIDs      int
	InvoicesRead    int
	InvoicesSkipped int
	ItemsRead       int
	ItemsSkipped    int
	DatesDefaulted  int
	ExpiredRows     int
	RowsWritten     int
	Diagnostics     int
}

// WriteSummaryLog writes a run summary to a timestamped file in outputDir.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	summaryFileName := fmt.Sprintf("run_summary_%s.txt", summary.StartTime.Format("20060102_150405"))
	summaryPath := filepath.Join(outputDir, summaryFileName)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	outputs := summary.OutputFile
	for _, extra := range []string{summary.XLSXFile, summary.XMLFile} {
		if extra == "" {
			continue
		}
		if outputs != "" {
			outputs += ", "
		}
		outputs += extra
	}
	if outputs == "" {
		outputs = "(none)"
	}

	fmt.Fprintf(writer, "Invoice Flattener - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Input:          %s\n"+
		"  Expired List:   %s\n"+
		"  Output:         %s\n\n"+
		"Statistics:\n"+
		"  Expired IDs:       %d\n"+
		"  Invoices Read:     %d\n"+
		"  Invoices Skipped:  %d\n"+
		"  Items Read:        %d\n"+
		"  Items Skipped:     %d\n"+
		"  Dates Defaulted:   %d\n"+
		"  Expired Rows:      %d\n"+
		"  Rows Written:      %d\n"+
		"  Diagnostics:       %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.InputFile,
		summary.ExpiredFile,
		outputs,
		summary.ExpiredIDs,
		summary.InvoicesRead,
		summary.InvoicesSkipped,
		summary.ItemsRead,
		summary.ItemsSkipped,
		summary.DatesDefaulted,
		summary.ExpiredRows,
		summary.RowsWritten,
		summary.Diagnostics)

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
