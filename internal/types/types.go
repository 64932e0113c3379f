// =============================================================================
// Invoice Flattener - Shared Types
// =============================================================================
//
// This package contains the types shared across modules to avoid import
// cycles. Types defined here are used by:
//   - source     (decodes Record / ItemEntry)
//   - converter  (builds FlatRow and Diagnostic values)
//   - csvwriter  (serializes FlatRow)
//   - xlsxwriter (serializes FlatRow)
//
// =============================================================================

package types

import (
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// INPUT TYPES
// =============================================================================

// Record is a single invoice as supplied by the record source.
//
// Fields are typed as `any` because the source data is loosely typed: ids may
// be numbers or strings, and created_on may be missing or of the wrong type.
// When decoded from JSON with UseNumber, numeric values arrive as json.Number
// so their literal text is preserved.
type Record struct {
	// ID is the invoice identifier. It is always coerced to a string.
	ID any `json:"id"`

	// CreatedOn is the date-like creation value, possibly malformed or absent.
	CreatedOn any `json:"created_on"`

	// Items holds the invoice line items. A nil pointer means the field was
	// absent (or null) in the source, which is different from an empty list.
	Items *[]ItemEntry `json:"items"`
}

// HasItems reports whether the record carried an items field.
func (r Record) HasItems() bool {
	return r.Items != nil
}

// ItemEntry is one entry of a record's items list.
type ItemEntry struct {
	// Item is the nested item description. Nil when the sub-mapping is absent.
	Item *Item `json:"item"`

	// Quantity is the numeric-like quantity, as a string or a number.
	Quantity any `json:"quantity"`
}

// Item is the nested item description of an ItemEntry.
type Item struct {
	ID        any `json:"id"`
	Name      any `json:"name"`
	UnitPrice any `json:"unit_price"`
	Type      any `json:"type"`
}

// =============================================================================
// TYPE CODES
// =============================================================================

// Item category labels.
const (
	TypeMaterial  = "Material"
	TypeEquipment = "Equipment"
	TypeService   = "Service"
	TypeOther     = "Other"
)

// typeLabels maps the integer type code of an item to its label.
// Codes not in the table resolve to TypeOther.
var typeLabels = map[int64]string{
	0: TypeMaterial,
	1: TypeEquipment,
	2: TypeService,
}

// TypeLabel returns the label for a type code, defaulting to TypeOther.
func TypeLabel(code int64) string {
	if label, ok := typeLabels[code]; ok {
		return label
	}
	return TypeOther
}

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// FlatRow is one output record: a single invoice line item after
// denormalization. Rows are built once by the transformer and never mutated.
type FlatRow struct {
	InvoiceID           string  `json:"invoice_id"`
	CreatedOn           string  `json:"created_on"`
	InvoiceItemID       string  `json:"invoiceitem_id"`
	InvoiceItemName     string  `json:"invoiceitem_name"`
	Type                string  `json:"type"`
	UnitPrice           int64   `json:"unit_price"`
	TotalPrice          int64   `json:"total_price"`
	PercentageInInvoice float64 `json:"percentage_in_invoice"`
	IsExpired           bool    `json:"is_expired"`
}

// FlatRowHeader is the fixed column order of the report.
var FlatRowHeader = []string{
	"invoice_id",
	"created_on",
	"invoiceitem_id",
	"invoiceitem_name",
	"type",
	"unit_price",
	"total_price",
	"percentage_in_invoice",
	"is_expired",
}

// Values returns the row's fields as strings in FlatRowHeader order.
func (r FlatRow) Values() []string {
	return []string{
		r.InvoiceID,
		r.CreatedOn,
		r.InvoiceItemID,
		r.InvoiceItemName,
		r.Type,
		strconv.FormatInt(r.UnitPrice, 10),
		strconv.FormatInt(r.TotalPrice, 10),
		FormatFloat(r.PercentageInInvoice),
		strconv.FormatBool(r.IsExpired),
	}
}

// FormatFloat renders a float in shortest round-trip form, keeping a trailing
// ".0" on integral values so the column always reads as a float.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// =============================================================================
// EXPIRATION SET
// =============================================================================

// ExpiredSet is the set of invoice identifiers considered expired.
type ExpiredSet map[string]struct{}

// NewExpiredSet builds a set from the given identifiers.
func NewExpiredSet(ids ...string) ExpiredSet {
	set := make(ExpiredSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set. A nil set contains nothing.
func (s ExpiredSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// DiagnosticKind classifies a recoverable anomaly.
type DiagnosticKind string

const (
	DiagInvalidDate        DiagnosticKind = "invalid_date"
	DiagMissingItems       DiagnosticKind = "missing_items"
	DiagMissingItem        DiagnosticKind = "missing_item"
	DiagInvalidUnitPrice   DiagnosticKind = "invalid_unit_price"
	DiagInvalidQuantity    DiagnosticKind = "invalid_quantity"
	DiagLineTotalOverflow  DiagnosticKind = "line_total_overflow"
	DiagMissingExpiredFile DiagnosticKind = "missing_expired_file"
	DiagNoRows             DiagnosticKind = "no_rows"
)

// Diagnostic describes a recoverable anomaly found during a run. Diagnostics
// are informational; they never abort the batch.
type Diagnostic struct {
	Kind      DiagnosticKind
	InvoiceID string
	ItemID    string
	Field     string
	Value     string
	Message   string
}
