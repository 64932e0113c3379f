// =============================================================================
// Invoice Flattener - XLSX Report Writer
// =============================================================================
//
// This module writes an optional spreadsheet copy of the CSV report. It has
// the same columns and row order as the CSV; numeric and boolean columns are
// stored as native cell values rather than text.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

// SheetName is the name of the worksheet holding the report.
const SheetName = "Invoices"

// Write saves rows as a workbook at path. An empty row set writes nothing
// and returns false.
func Write(rows []types.FlatRow, path string, log zerolog.Logger) (bool, error) {
	if len(rows) == 0 {
		log.Warn().Str("path", path).Msg("No data to save")
		return false, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	// A new workbook starts with a single default sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return false, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]any, len(types.FlatRowHeader))
	for i, name := range types.FlatRowHeader {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return false, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return false, err
		}
		values := []any{
			row.InvoiceID,
			row.CreatedOn,
			row.InvoiceItemID,
			row.InvoiceItemName,
			row.Type,
			row.UnitPrice,
			row.TotalPrice,
			row.PercentageInInvoice,
			row.IsExpired,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return false, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return false, fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return false, fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Info().Str("path", path).Int("rows", len(rows)).Msg("Workbook saved")
	return true, nil
}
