package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

const sampleBlob = `[
  {"id": 7, "created_on": "2024-03-01", "items": [
    {"item": {"id": 1, "name": "Bolt", "unit_price": "10", "type": 0}, "quantity": "3"}
  ]},
  {"id": "A-2", "created_on": null},
  {"id": 3, "items": null},
  {"id": 4, "items": []}
]`

func TestDecode(t *testing.T) {
	records, err := Decode(strings.NewReader(sampleBlob))
	require.NoError(t, err)
	require.Len(t, records, 4)

	t.Run("numbers keep their literal", func(t *testing.T) {
		assert.Equal(t, json.Number("7"), records[0].ID)
		require.True(t, records[0].HasItems())
		items := *records[0].Items
		require.Len(t, items, 1)
		require.NotNil(t, items[0].Item)
		assert.Equal(t, "10", items[0].Item.UnitPrice)
		assert.Equal(t, json.Number("0"), items[0].Item.Type)
		assert.Equal(t, "3", items[0].Quantity)
	})

	t.Run("absent and null items are both missing", func(t *testing.T) {
		assert.False(t, records[1].HasItems())
		assert.Nil(t, records[1].CreatedOn)
		assert.False(t, records[2].HasItems())
	})

	t.Run("empty items list is present", func(t *testing.T) {
		require.True(t, records[3].HasItems())
		assert.Empty(t, *records[3].Items)
	})
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "object instead of array", doc: `{"id": 1}`},
		{name: "null document", doc: `null`},
		{name: "truncated", doc: `[{"id": 1}`},
		{name: "empty input", doc: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	log := zerolog.Nop()

	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invoices.json")
		require.NoError(t, os.WriteFile(path, []byte(sampleBlob), 0o644))

		records, err := Load(path, log)
		require.NoError(t, err)
		assert.Len(t, records, 4)
	})

	t.Run("empty array is not nil", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

		records, err := Load(path, log)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"), log)
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load("", log)
		assert.ErrorIs(t, err, ErrEmptyPath)
	})
}

func TestLoadExpired(t *testing.T) {
	log := zerolog.Nop()

	t.Run("trims and skips blank lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "expired.txt")
		require.NoError(t, os.WriteFile(path, []byte(" 7 \n\n  \nA-2\r\n12\n"), 0o644))

		set, diags, err := LoadExpired(path, log)
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Len(t, set, 3)
		assert.True(t, set.Contains("7"))
		assert.True(t, set.Contains("A-2"))
		assert.True(t, set.Contains("12"))
		assert.False(t, set.Contains(""))
	})

	t.Run("missing file yields empty set and diagnostic", func(t *testing.T) {
		set, diags, err := LoadExpired(filepath.Join(t.TempDir(), "missing.txt"), log)
		require.NoError(t, err)
		assert.NotNil(t, set)
		assert.Empty(t, set)
		require.Len(t, diags, 1)
		assert.Equal(t, types.DiagMissingExpiredFile, diags[0].Kind)
	})

	t.Run("directory is a read error", func(t *testing.T) {
		_, _, err := LoadExpired(t.TempDir(), log)
		assert.Error(t, err)
	})
}
