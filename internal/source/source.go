// =============================================================================
// Invoice Flattener - Record Source Module
// =============================================================================
//
// This module loads the invoice records and the expired-invoice identifiers.
//
// INPUT FORMATS:
//   - Invoice blob : a JSON array of invoice objects. Numbers are decoded with
//                    UseNumber so their literal text ("10", "10.0") survives
//                    for the digit checks of the transformer.
//   - Expired list : UTF-8 text, one identifier per line. Lines are trimmed
//                    and blank lines ignored.
//
// Files are opened, read and closed within each call; nothing is held open
// across the transform.
//
// =============================================================================

package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

// ErrEmptyPath is returned when no input path was configured.
var ErrEmptyPath = errors.New("input path is empty")

// =============================================================================
// INVOICE RECORDS
// =============================================================================

// Load reads the invoice blob at path.
//
// RETURNS:
//   - The records in source order. An empty JSON array yields an empty,
//     non-nil slice.
//   - An error if the file cannot be opened or is not a JSON array of objects.
func Load(path string, log zerolog.Logger) ([]types.Record, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open invoice file: %w", err)
	}
	defer file.Close()

	records, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Int("records", len(records)).
		Msg("Invoice data loaded")

	return records, nil
}

// Decode decodes a JSON array of invoice objects from r.
func Decode(r io.Reader) ([]types.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []types.Record
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	if records == nil {
		// A literal `null` document carries no data at all.
		return nil, errors.New("document is null, expected an array of invoices")
	}

	return records, nil
}
