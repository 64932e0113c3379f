// =============================================================================
// Invoice Flattener - XML Writer Module
// =============================================================================
//
// This module writes the optional XML rendition of the report. Rows are
// regrouped under their invoice; the CSV report stays the primary output.
//
// XML STRUCTURE:
//
//   <invoices>
//     <invoice n="1" id="7" created_on="2024-01-15" is_expired="true">
//       <lineItem n="1">
//         <invoiceitem_id>1</invoiceitem_id>
//         <invoiceitem_name>Bolt</invoiceitem_name>
//         <type>Material</type>
//         <unit_price>10</unit_price>
//         <total_price>30</total_price>
//         <percentage_in_invoice>0.25</percentage_in_invoice>
//       </lineItem>
//     </invoice>
//     <invoice n="2" id="8" created_on="" is_expired="false">
//       <lineItem n="2">                 <!-- global numbering continues -->
//         ...
//       </lineItem>
//     </invoice>
//   </invoices>
//
// Rows must already be sorted; consecutive rows with the same invoice id
// form one invoice element.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration writes the <?xml ...?> header.
	// Default: true
	IncludeXMLDeclaration bool

	// RootElement, InvoiceElement and LineItemElement name the three levels.
	// Defaults: "invoices", "invoice", "lineItem"
	RootElement     string
	InvoiceElement  string
	LineItemElement string

	// LineItemNumberingGlobal numbers line items 1, 2, 3... across all
	// invoices. When false, numbering restarts at 1 in each invoice.
	// Default: true
	LineItemNumberingGlobal bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                  "  ",
		IncludeXMLDeclaration:   true,
		RootElement:             "invoices",
		InvoiceElement:          "invoice",
		LineItemElement:         "lineItem",
		LineItemNumberingGlobal: true,
	}
}

// =============================================================================
// WRITING
// =============================================================================

// Write saves rows as an XML document at path. An empty row set writes
// nothing and returns false.
func Write(rows []types.FlatRow, path string, log zerolog.Logger) (bool, error) {
	if len(rows) == 0 {
		log.Warn().Str("path", path).Msg("No data to save")
		return false, nil
	}

	data, err := Generate(rows, DefaultGenerateOptions())
	if err != nil {
		return false, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write XML report: %w", err)
	}

	log.Info().Str("path", path).Int("rows", len(rows)).Msg("XML report saved")
	return true, nil
}

// Generate renders rows as an XML document.
func Generate(rows []types.FlatRow, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	doc := buildDocument(rows, options)
	if err := writeElement(&buffer, doc, options.Indent, 0); err != nil {
		return nil, fmt.Errorf("failed to render XML: %w", err)
	}

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// element is a node of the rendered tree. A node carries either a text value
// or children, never both.
type element struct {
	name     string
	attrs    []xml.Attr
	value    string
	children []element
}

func buildDocument(rows []types.FlatRow, options GenerateOptions) element {
	root := element{name: options.RootElement}

	lineIndex := 0
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rows[end].InvoiceID == rows[start].InvoiceID {
			end++
		}

		if !options.LineItemNumberingGlobal {
			lineIndex = 0
		}
		invoice := buildInvoiceElement(rows[start:end], len(root.children)+1, &lineIndex, options)
		root.children = append(root.children, invoice)

		start = end
	}

	return root
}

// buildInvoiceElement renders one invoice. Invoice-level fields come from
// the first row; they are identical across the invoice's rows.
func buildInvoiceElement(rows []types.FlatRow, index int, lineIndex *int, options GenerateOptions) element {
	first := rows[0]
	invoice := element{
		name: options.InvoiceElement,
		attrs: []xml.Attr{
			attr("n", strconv.Itoa(index)),
			attr("id", first.InvoiceID),
			attr("created_on", first.CreatedOn),
			attr("is_expired", strconv.FormatBool(first.IsExpired)),
		},
	}

	for _, row := range rows {
		*lineIndex++
		invoice.children = append(invoice.children, element{
			name:  options.LineItemElement,
			attrs: []xml.Attr{attr("n", strconv.Itoa(*lineIndex))},
			children: []element{
				{name: "invoiceitem_id", value: row.InvoiceItemID},
				{name: "invoiceitem_name", value: row.InvoiceItemName},
				{name: "type", value: row.Type},
				{name: "unit_price", value: strconv.FormatInt(row.UnitPrice, 10)},
				{name: "total_price", value: strconv.FormatInt(row.TotalPrice, 10)},
				{name: "percentage_in_invoice", value: types.FormatFloat(row.PercentageInInvoice)},
			},
		})
	}

	return invoice
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// =============================================================================
// RENDERING
// =============================================================================

// writeElement writes e and its children at the given nesting level.
func writeElement(buffer *bytes.Buffer, e element, indent string, level int) error {
	writeIndent(buffer, indent, level)

	buffer.WriteString("<" + e.name)
	for _, a := range e.attrs {
		buffer.WriteString(" " + a.Name.Local + `="`)
		if err := xml.EscapeText(buffer, []byte(a.Value)); err != nil {
			return err
		}
		buffer.WriteString(`"`)
	}

	switch {
	case len(e.children) == 0 && e.value == "":
		buffer.WriteString("/>\n")
		return nil

	case len(e.children) == 0:
		buffer.WriteString(">")
		if err := xml.EscapeText(buffer, []byte(e.value)); err != nil {
			return err
		}

	default:
		buffer.WriteString(">\n")
		for _, child := range e.children {
			if err := writeElement(buffer, child, indent, level+1); err != nil {
				return err
			}
		}
		writeIndent(buffer, indent, level)
	}

	buffer.WriteString("</" + e.name + ">\n")
	return nil
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}
