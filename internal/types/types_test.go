package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		0:         "0.0",
		1:         "1.0",
		0.25:      "0.25",
		1.0 / 3.0: "0.3333333333333333",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatFloat(in))
	}
}

func TestFlatRowValues(t *testing.T) {
	row := FlatRow{
		InvoiceID:           "7",
		CreatedOn:           "2024-01-15",
		InvoiceItemID:       "1",
		InvoiceItemName:     "Bolt",
		Type:                TypeMaterial,
		UnitPrice:           10,
		TotalPrice:          30,
		PercentageInInvoice: 1,
		IsExpired:           true,
	}

	assert.Len(t, FlatRowHeader, 9)
	assert.Equal(t, []string{"7", "2024-01-15", "1", "Bolt", "Material", "10", "30", "1.0", "true"}, row.Values())
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, TypeMaterial, TypeLabel(0))
	assert.Equal(t, TypeEquipment, TypeLabel(1))
	assert.Equal(t, TypeService, TypeLabel(2))
	assert.Equal(t, TypeOther, TypeLabel(3))
	assert.Equal(t, TypeOther, TypeLabel(-1))
}

func TestExpiredSet(t *testing.T) {
	set := NewExpiredSet("1", "42")
	assert.True(t, set.Contains("42"))
	assert.False(t, set.Contains("4"))

	var empty ExpiredSet
	assert.False(t, empty.Contains("1"))
}
