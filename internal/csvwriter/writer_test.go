package csvwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

func sampleRows() []types.FlatRow {
	return []types.FlatRow{
		{
			InvoiceID:           "7",
			CreatedOn:           "2024-03-01",
			InvoiceItemID:       "1",
			InvoiceItemName:     "Bolt",
			Type:                types.TypeMaterial,
			UnitPrice:           10,
			TotalPrice:          30,
			PercentageInInvoice: 1,
			IsExpired:           true,
		},
		{
			InvoiceID:           "8",
			InvoiceItemID:       "2",
			InvoiceItemName:     `Nut, "hex"`,
			Type:                types.TypeOther,
			UnitPrice:           5,
			TotalPrice:          10,
			PercentageInInvoice: 0.25,
		},
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, sampleRows()))

	want := "invoice_id,created_on,invoiceitem_id,invoiceitem_name,type,unit_price,total_price,percentage_in_invoice,is_expired\n" +
		"7,2024-03-01,1,Bolt,Material,10,30,1.0,true\n" +
		"8,,2,\"Nut, \"\"hex\"\"\",Other,5,10,0.25,false\n"
	assert.Equal(t, want, buf.String())
}

func TestWrite(t *testing.T) {
	log := zerolog.Nop()

	t.Run("creates nested directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deep", "nested", "report.csv")

		written, err := Write(sampleRows(), path, log)
		require.NoError(t, err)
		assert.True(t, written)
		assert.FileExists(t, path)

		file, err := os.Open(path)
		require.NoError(t, err)
		defer file.Close()

		records, err := csv.NewReader(file).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, types.FlatRowHeader, records[0])
		assert.Equal(t, `Nut, "hex"`, records[2][3])
	})

	t.Run("empty rows write nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "report.csv")

		written, err := Write(nil, path, log)
		require.NoError(t, err)
		assert.False(t, written)
		assert.NoFileExists(t, path)
		assert.NoDirExists(t, filepath.Dir(path))
	})

	t.Run("overwrites an existing report", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.csv")
		require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

		_, err := Write(sampleRows()[:1], path, log)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "stale")
	})
}
