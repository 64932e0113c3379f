package xmlwriter

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

var sampleRows = []types.FlatRow{
	{InvoiceID: "7", CreatedOn: "2024-01-15", InvoiceItemID: "1", InvoiceItemName: "Nut & Bolt", Type: types.TypeMaterial, UnitPrice: 10, TotalPrice: 10, PercentageInInvoice: 0.25, IsExpired: true},
	{InvoiceID: "7", CreatedOn: "2024-01-15", InvoiceItemID: "2", InvoiceItemName: "Drill", Type: types.TypeEquipment, UnitPrice: 30, TotalPrice: 30, PercentageInInvoice: 0.75, IsExpired: true},
	{InvoiceID: "8", InvoiceItemID: "1", Type: types.TypeOther, UnitPrice: 5, TotalPrice: 5, PercentageInInvoice: 1},
}

func TestGenerate(t *testing.T) {
	data, err := Generate(sampleRows[2:], DefaultGenerateOptions())
	require.NoError(t, err)

	assert.Equal(t, xml.Header+`<invoices>
  <invoice n="1" id="8" created_on="" is_expired="false">
    <lineItem n="1">
      <invoiceitem_id>1</invoiceitem_id>
      <invoiceitem_name/>
      <type>Other</type>
      <unit_price>5</unit_price>
      <total_price>5</total_price>
      <percentage_in_invoice>1.0</percentage_in_invoice>
    </lineItem>
  </invoice>
</invoices>
`, string(data))
}

type parsedDoc struct {
	Invoices []struct {
		N         int    `xml:"n,attr"`
		ID        string `xml:"id,attr"`
		IsExpired bool   `xml:"is_expired,attr"`
		Lines     []struct {
			N    int    `xml:"n,attr"`
			Name string `xml:"invoiceitem_name"`
		} `xml:"lineItem"`
	} `xml:"invoice"`
}

func TestGenerate_GroupsAndNumbers(t *testing.T) {
	data, err := Generate(sampleRows, DefaultGenerateOptions())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Nut &amp; Bolt")

	var doc parsedDoc
	require.NoError(t, xml.Unmarshal(data, &doc))

	require.Len(t, doc.Invoices, 2)
	assert.Equal(t, "7", doc.Invoices[0].ID)
	assert.True(t, doc.Invoices[0].IsExpired)
	require.Len(t, doc.Invoices[0].Lines, 2)
	assert.Equal(t, "Nut & Bolt", doc.Invoices[0].Lines[0].Name)
	assert.Equal(t, 2, doc.Invoices[1].N)
	assert.Equal(t, 3, doc.Invoices[1].Lines[0].N)
}

func TestGenerate_PerInvoiceNumbering(t *testing.T) {
	options := DefaultGenerateOptions()
	options.LineItemNumberingGlobal = false
	options.IncludeXMLDeclaration = false

	data, err := Generate(sampleRows, options)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<invoices>"))

	var doc parsedDoc
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Equal(t, 1, doc.Invoices[1].Lines[0].N)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.xml")

	written, err := Write(sampleRows, path, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<invoice n="2" id="8"`)

	empty := filepath.Join(t.TempDir(), "empty.xml")
	written, err = Write(nil, empty, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, written)
	assert.NoFileExists(t, empty)
}
