// =============================================================================
// Invoice Flattener - Transformation Engine
// =============================================================================
//
// This module converts invoice records into flat report rows.
//
// PER-INVOICE STEPS:
//   1. Coerce the invoice id to a string (join key for the expired set)
//   2. Normalize created_on to YYYY-MM-DD, or "" when it cannot be parsed
//   3. Flag the invoice as expired when its id is in the expired set
//   4. Skip the invoice when it has no items field
//   5. Compute the invoice total from digit-only items (filter-then-sum)
//   6. Emit one row per item whose unit_price and quantity are integers
//      and whose line total fits in an int64
//
// After all invoices, rows are stably sorted by (invoice_id, invoiceitem_id).
//
// FAILURE SEMANTICS:
//   Only a missing dataset is an error. Every other anomaly becomes a
//   Diagnostic: it is logged at warn level, collected in the Batch, and
//   processing continues with the next field, item or invoice.
//
// =============================================================================

package converter

import (
	"cmp"
	"errors"
	"math/big"
	"slices"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
	"github.com/ginjaninja78/invoice-flattener/internal/validation"
)

// ErrDataNotLoaded is returned when Transform is called without source data.
var ErrDataNotLoaded = errors.New("data not loaded: no invoice records supplied")

// =============================================================================
// BATCH
// =============================================================================

// Batch is the outcome of one Transform call.
type Batch struct {
	// Rows are the flat rows sorted by (InvoiceID, InvoiceItemID).
	Rows []types.FlatRow

	// Diagnostics lists every recoverable anomaly in detection order.
	Diagnostics []types.Diagnostic

	// Stats counts what was read, skipped and emitted.
	Stats TransformStats
}

// TransformStats contains counters about a transform.
type TransformStats struct {
	InvoicesRead    int
	InvoicesSkipped int
	ItemsRead       int
	ItemsSkipped    int
	DatesDefaulted  int
	ExpiredRows     int
	RowsEmitted     int
}

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer flattens invoice records into report rows.
// It holds no per-run state and can be reused.
type Transformer struct {
	log zerolog.Logger
}

// NewTransformer creates a Transformer that logs diagnostics to log.
func NewTransformer(log zerolog.Logger) *Transformer {
	return &Transformer{log: log}
}

// Transform flattens records into sorted rows.
//
// PARAMETERS:
//   - records: The invoice records in source order. Nil means no data was
//     loaded and yields ErrDataNotLoaded; an empty slice yields no rows.
//   - expired: The expired invoice identifiers. May be nil.
//
// RETURNS:
//   - A fresh Batch with rows, diagnostics and stats.
//   - ErrDataNotLoaded if records is nil.
func (t *Transformer) Transform(records []types.Record, expired types.ExpiredSet) (*Batch, error) {
	if records == nil {
		return nil, ErrDataNotLoaded
	}

	run := &transformRun{log: t.log, batch: &Batch{Rows: []types.FlatRow{}}}
	for _, record := range records {
		run.invoice(record, expired)
	}

	slices.SortStableFunc(run.batch.Rows, compareRows)
	run.batch.Stats.RowsEmitted = len(run.batch.Rows)

	t.log.Info().
		Int("invoices", run.batch.Stats.InvoicesRead).
		Int("rows", run.batch.Stats.RowsEmitted).
		Int("diagnostics", len(run.batch.Diagnostics)).
		Msg("Data transformed")

	return run.batch, nil
}

// compareRows orders rows by invoice id, then item id, as plain strings.
func compareRows(a, b types.FlatRow) int {
	if c := cmp.Compare(a.InvoiceID, b.InvoiceID); c != 0 {
		return c
	}
	return cmp.Compare(a.InvoiceItemID, b.InvoiceItemID)
}

// transformRun accumulates the batch of a single Transform call.
type transformRun struct {
	log   zerolog.Logger
	batch *Batch
}

// invoice processes one record, appending its rows to the batch.
func (r *transformRun) invoice(record types.Record, expired types.ExpiredSet) {
	r.batch.Stats.InvoicesRead++

	invoiceID := validation.Stringify(record.ID)

	createdOn, err := validation.ParseDate(record.CreatedOn)
	if err != nil {
		r.batch.Stats.DatesDefaulted++
		r.diagnose(types.Diagnostic{
			Kind:      types.DiagInvalidDate,
			InvoiceID: invoiceID,
			Field:     "created_on",
			Value:     validation.Stringify(record.CreatedOn),
			Message:   "invalid or missing date, assigning empty value",
		})
		createdOn = ""
	}

	isExpired := expired.Contains(invoiceID)

	if !record.HasItems() {
		r.batch.Stats.InvoicesSkipped++
		r.diagnose(types.Diagnostic{
			Kind:      types.DiagMissingItems,
			InvoiceID: invoiceID,
			Field:     "items",
			Message:   "no items found for invoice",
		})
		return
	}

	items := *record.Items
	total := invoiceTotal(items)

	for _, entry := range items {
		r.batch.Stats.ItemsRead++

		row, ok := r.item(invoiceID, entry, total)
		if !ok {
			r.batch.Stats.ItemsSkipped++
			continue
		}

		row.CreatedOn = createdOn
		row.IsExpired = isExpired
		if isExpired {
			r.batch.Stats.ExpiredRows++
		}
		r.batch.Rows = append(r.batch.Rows, row)
	}
}

// item builds the row of one entry. It reports false when the entry must be
// skipped; the reason has already been recorded as a diagnostic.
func (r *transformRun) item(invoiceID string, entry types.ItemEntry, total *big.Int) (types.FlatRow, bool) {
	if entry.Item == nil {
		r.diagnose(types.Diagnostic{
			Kind:      types.DiagMissingItem,
			InvoiceID: invoiceID,
			Field:     "item",
			Message:   "item entry has no item details",
		})
		return types.FlatRow{}, false
	}

	detail := entry.Item
	itemID := validation.Stringify(detail.ID)

	unitPrice, err := validation.ToInt(detail.UnitPrice)
	if err != nil {
		r.diagnose(types.Diagnostic{
			Kind:      types.DiagInvalidUnitPrice,
			InvoiceID: invoiceID,
			ItemID:    itemID,
			Field:     "unit_price",
			Value:     validation.Stringify(detail.UnitPrice),
			Message:   conversionMessage("unit_price", err),
		})
		return types.FlatRow{}, false
	}

	itemType := validation.TypeLabel(detail.Type)

	quantity, err := validation.ToInt(entry.Quantity)
	if err != nil {
		r.diagnose(types.Diagnostic{
			Kind:      types.DiagInvalidQuantity,
			InvoiceID: invoiceID,
			ItemID:    itemID,
			Field:     "quantity",
			Value:     validation.Stringify(entry.Quantity),
			Message:   conversionMessage("quantity", err),
		})
		return types.FlatRow{}, false
	}

	totalPrice, err := validation.MulInt(unitPrice, quantity)
	if err != nil {
		r.diagnose(types.Diagnostic{
			Kind:      types.DiagLineTotalOverflow,
			InvoiceID: invoiceID,
			ItemID:    itemID,
			Field:     "total_price",
			Value:     validation.Stringify(detail.UnitPrice) + " x " + validation.Stringify(entry.Quantity),
			Message:   "line total out of integer range",
		})
		return types.FlatRow{}, false
	}

	return types.FlatRow{
		InvoiceID:           invoiceID,
		InvoiceItemID:       itemID,
		InvoiceItemName:     validation.Stringify(detail.Name),
		Type:                itemType,
		UnitPrice:           unitPrice,
		TotalPrice:          totalPrice,
		PercentageInInvoice: share(totalPrice, total),
	}, true
}

func conversionMessage(field string, err error) string {
	if errors.Is(err, validation.ErrOutOfRange) {
		return field + " out of integer range"
	}
	return "invalid " + field + " value"
}

func (r *transformRun) diagnose(d types.Diagnostic) {
	r.batch.Diagnostics = append(r.batch.Diagnostics, d)

	event := r.log.Warn().
		Str("kind", string(d.Kind)).
		Str("invoice_id", d.InvoiceID)
	if d.ItemID != "" {
		event = event.Str("item_id", d.ItemID)
	}
	if d.Field != "" {
		event = event.Str("field", d.Field)
	}
	if d.Value != "" {
		event = event.Str("value", d.Value)
	}
	event.Msg(d.Message)
}

// =============================================================================
// DERIVATIONS
// =============================================================================

// invoiceTotal sums the line totals of the countable items. The sum is exact;
// only single line totals are bounded to int64.
func invoiceTotal(items []types.ItemEntry) *big.Int {
	total := new(big.Int)
	for _, entry := range items {
		if line, ok := countableLine(entry); ok {
			total.Add(total, big.NewInt(line))
		}
	}
	return total
}

// countableLine reports the line total of an entry that contributes to the
// invoice total: its raw unit_price and quantity are both digit-only, and
// converting and multiplying them succeeds. Entries rejected here for range
// reasons are skipped by item as well.
func countableLine(entry types.ItemEntry) (int64, bool) {
	if entry.Item == nil {
		return 0, false
	}
	if !validation.IsDigits(entry.Item.UnitPrice) || !validation.IsDigits(entry.Quantity) {
		return 0, false
	}

	unitPrice, err := validation.ToInt(entry.Item.UnitPrice)
	if err != nil {
		return 0, false
	}
	quantity, err := validation.ToInt(entry.Quantity)
	if err != nil {
		return 0, false
	}
	line, err := validation.MulInt(unitPrice, quantity)
	if err != nil {
		return 0, false
	}
	return line, true
}

// share returns part/total rounded to the nearest float64, or 0 when total
// is zero.
func share(part int64, total *big.Int) float64 {
	if total.Sign() == 0 {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(big.NewInt(part), total).Float64()
	return f
}
