// =============================================================================
// Invoice Flattener - CSV Report Writer
// =============================================================================
//
// This module serializes flat rows to a CSV report.
//
// OUTPUT FORMAT:
//   - UTF-8, comma-delimited, standard CSV quoting
//   - Header row: invoice_id, created_on, invoiceitem_id, invoiceitem_name,
//     type, unit_price, total_price, percentage_in_invoice, is_expired
//   - One line per row, in the order given
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

// Write saves rows as a CSV report at path.
//
// PARAMETERS:
//   - rows: The rows to write, already sorted.
//   - path: The destination file. Missing parent directories are created.
//
// RETURNS:
//   - true if a file was written. An empty row set writes nothing and
//     returns false with a nil error.
//   - An error if the directory or the file cannot be written.
func Write(rows []types.FlatRow, path string, log zerolog.Logger) (bool, error) {
	if len(rows) == 0 {
		log.Warn().Str("path", path).Msg("No data to save")
		return false, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
			log.Info().Str("dir", dir).Msg("Directory created")
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("failed to create report: %w", err)
	}

	if err := WriteTo(file, rows); err != nil {
		file.Close()
		return false, fmt.Errorf("failed to write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return false, fmt.Errorf("failed to close report: %w", err)
	}

	log.Info().Str("path", path).Int("rows", len(rows)).Msg("Data saved")
	return true, nil
}

// WriteTo writes the header and rows to w.
func WriteTo(w io.Writer, rows []types.FlatRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(types.FlatRowHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
