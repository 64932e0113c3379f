// =============================================================================
// Invoice Flattener - Converter Module
// =============================================================================
//
// This module orchestrates one run of the pipeline.
//
// CONVERSION PIPELINE:
//   1. Load the expired invoice identifiers (a missing file is tolerated)
//   2. Load the invoice records
//   3. Transform records into sorted flat rows
//   4. Write the CSV report
//   5. Write the optional XLSX and XML copies
//   6. Write the diagnostics log and run summary, when enabled
//
// In dry-run mode steps 4-6 are skipped.
//
// =============================================================================

package converter

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/invoice-flattener/internal/config"
	"github.com/ginjaninja78/invoice-flattener/internal/csvwriter"
	"github.com/ginjaninja78/invoice-flattener/internal/logger"
	"github.com/ginjaninja78/invoice-flattener/internal/source"
	"github.com/ginjaninja78/invoice-flattener/internal/types"
	"github.com/ginjaninja78/invoice-flattener/internal/xlsxwriter"
	"github.com/ginjaninja78/invoice-flattener/internal/xmlwriter"
	"github.com/ginjaninja78/invoice-flattener/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in logs and generated file names.
	RunID string

	// InputFile is the invoice blob that was processed.
	InputFile string

	// OutputFile is the CSV report path. Empty if nothing was written.
	OutputFile string

	// XLSXFile is the spreadsheet copy path. Empty if nothing was written.
	XLSXFile string

	// XMLFile is the XML copy path. Empty if nothing was written.
	XMLFile string

	// ErrorLogFile is the diagnostics log path, if one was written.
	ErrorLogFile string

	// SummaryFile is the run summary path, if one was written.
	SummaryFile string

	// Success indicates whether the run completed.
	Success bool

	// Error contains the fatal error if the run failed.
	Error error

	// Rows are the transformed rows.
	Rows []types.FlatRow

	// Diagnostics lists every recoverable anomaly of the run.
	Diagnostics []types.Diagnostic

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	TransformStats

	// ExpiredIDs is the size of the loaded expired set.
	ExpiredIDs int

	// ProcessingTime is the time taken by the whole run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the pipeline for one configuration.
type Converter struct {
	cfg *config.MainConfig
	log zerolog.Logger
	now func() time.Time
}

// New creates a new Converter.
func New(cfg *config.MainConfig, log zerolog.Logger) *Converter {
	return &Converter{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline.
//
// RETURNS:
//   - A Result with the outcome. Recoverable anomalies never fail the run;
//     Result.Error is set only for unreadable input, a missing dataset, or
//     a report that cannot be written.
func (c *Converter) Run() Result {
	startTime := c.now()
	runID := uuid.New().String()
	log := logger.WithRunID(c.log, runID)

	result := Result{
		RunID:     runID,
		InputFile: c.cfg.InputFile,
	}

	log.Info().
		Str("input", c.cfg.InputFile).
		Bool("dry_run", c.cfg.DryRun).
		Msg("Starting extraction")

	// =========================================================================
	// STEP 1-2: LOAD INPUTS
	// =========================================================================

	expired, diags, err := source.LoadExpired(c.cfg.ExpiredFile, log)
	if err != nil {
		result.Error = fmt.Errorf("failed to load expired invoices: %w", err)
		return result
	}
	result.Diagnostics = append(result.Diagnostics, diags...)
	result.Stats.ExpiredIDs = len(expired)

	records, err := source.Load(c.cfg.InputFile, log)
	if err != nil {
		result.Error = fmt.Errorf("failed to load data: %w", err)
		return result
	}

	// =========================================================================
	// STEP 3: TRANSFORM
	// =========================================================================

	batch, err := NewTransformer(log).Transform(records, expired)
	if err != nil {
		result.Error = fmt.Errorf("failed to transform data: %w", err)
		return result
	}

	result.Rows = batch.Rows
	result.Diagnostics = append(result.Diagnostics, batch.Diagnostics...)
	result.Stats.TransformStats = batch.Stats

	if c.cfg.DryRun {
		log.Info().Int("rows", len(batch.Rows)).Msg("Dry run, no files written")
		result.Success = true
		result.Stats.ProcessingTime = c.now().Sub(startTime)
		return result
	}

	// =========================================================================
	// STEP 4-5: WRITE REPORTS
	// =========================================================================

	params := map[string]string{"uuid": runID}

	outputPath := utils.GenerateOutputFileName(c.cfg.OutputFile, startTime, params)
	written, err := csvwriter.Write(batch.Rows, outputPath, log)
	if err != nil {
		result.Error = err
		return result
	}
	if written {
		result.OutputFile = outputPath
	} else {
		result.Diagnostics = append(result.Diagnostics, types.Diagnostic{
			Kind:    types.DiagNoRows,
			Value:   outputPath,
			Message: "no data to save, report not written",
		})
	}

	if c.cfg.XLSXFile != "" {
		xlsxPath := utils.GenerateOutputFileName(c.cfg.XLSXFile, startTime, params)
		written, err := xlsxwriter.Write(batch.Rows, xlsxPath, log)
		if err != nil {
			result.Error = err
			return result
		}
		if written {
			result.XLSXFile = xlsxPath
		}
	}

	if c.cfg.XMLFile != "" {
		xmlPath := utils.GenerateOutputFileName(c.cfg.XMLFile, startTime, params)
		written, err := xmlwriter.Write(batch.Rows, xmlPath, log)
		if err != nil {
			result.Error = err
			return result
		}
		if written {
			result.XMLFile = xmlPath
		}
	}

	// =========================================================================
	// STEP 6: LOGS
	// =========================================================================
	// Failures here are logged but do not fail the run.

	if c.cfg.WriteErrorLog {
		path, err := utils.WriteErrorLog(result.Diagnostics, c.cfg.LogDir, runID, startTime)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to write diagnostics log")
		}
		result.ErrorLogFile = path
	}

	result.Success = true
	result.Stats.ProcessingTime = c.now().Sub(startTime)

	if c.cfg.WriteSummary {
		path, err := utils.WriteSummaryLog(c.summary(result, startTime), c.cfg.LogDir)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to write run summary")
		}
		result.SummaryFile = path
	}

	log.Info().
		Str("output", result.OutputFile).
		Int("rows", len(result.Rows)).
		Int("diagnostics", len(result.Diagnostics)).
		Dur("elapsed", result.Stats.ProcessingTime).
		Msg("Extraction complete")

	return result
}

func (c *Converter) summary(result Result, startTime time.Time) utils.RunSummary {
	return utils.RunSummary{
		RunID:           result.RunID,
		StartTime:       startTime,
		EndTime:         startTime.Add(result.Stats.ProcessingTime),
		InputFile:       c.cfg.InputFile,
		ExpiredFile:     c.cfg.ExpiredFile,
		OutputFile:      result.OutputFile,
		XLSXFile:        result.XLSXFile,
		XMLFile:         result.XMLFile,
		ExpiredIDs:      result.Stats.ExpiredIDs,
		InvoicesRead:    result.Stats.InvoicesRead,
		InvoicesSkipped: result.Stats.InvoicesSkipped,
		ItemsRead:       result.Stats.ItemsRead,
		ItemsSkipped:    result.Stats.ItemsSkipped,
		DatesDefaulted:  result.Stats.DatesDefaulted,
		ExpiredRows:     result.Stats.ExpiredRows,
		RowsWritten:     len(result.Rows),
		Diagnostics:     len(result.Diagnostics),
	}
}
