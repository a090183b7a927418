package fullreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatOrDefault(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want float64
	}{
		{"empty", Cell{}, 0},
		{"blank", Cell{Value: "   "}, 0},
		{"locale thousands and decimals", Cell{Value: "1.234,56"}, 1234.56},
		{"locale decimal only", Cell{Value: "12,5"}, 12.5},
		{"locale thousands only", Cell{Value: "1.234"}, 1234},
		{"typed number keeps dot decimal", Cell{Value: "1234.5", Numeric: true}, 1234.5},
		{"typed integer", Cell{Value: "42", Numeric: true}, 42},
		{"garbage", Cell{Value: "abc"}, 0},
		{"dash placeholder", Cell{Value: "-"}, 0},
		{"nan", Cell{Value: "NaN"}, 0},
		{"infinity", Cell{Value: "Inf", Numeric: true}, 0},
		{"negative", Cell{Value: "-3,25"}, -3.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseFloatOrDefault(tt.cell), 1e-9)
		})
	}
}

func TestParseIntOrDefault(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want int
	}{
		{"empty", Cell{}, 0},
		{"plain", Cell{Value: "17"}, 17},
		{"truncates fraction", Cell{Value: "3,9"}, 3},
		{"truncates toward zero", Cell{Value: "-3,9"}, -3},
		{"typed float", Cell{Value: "7.99", Numeric: true}, 7},
		{"thousands", Cell{Value: "1.500"}, 1500},
		{"garbage", Cell{Value: "n/a"}, 0},
		{"too large", Cell{Value: "1e300", Numeric: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntOrDefault(tt.cell))
		})
	}
}

func TestNormalizeFullRows(t *testing.T) {
	ix := mustIndex(t, DefaultFullColumns)
	row := textRow(t, DefaultFullColumns, map[Field]string{
		FieldSKU:            "  SKU-1 ",
		FieldListingID:      "MLB123",
		FieldProductName:    " Oil filter ",
		FieldStatus:         " Active ",
		FieldSales30d:       "12",
		FieldStockOnHand:    "1.200",
		FieldPromoteQty:     "3",
		FieldFixQty:         "x",
		FieldDiscardRiskQty: "",
		FieldTimeToExhaust:  "30 days",
	})

	facts := NormalizeFullRows([]Row{row, {}}, ix)

	assert.Len(t, facts, 2)
	f := facts[0]
	assert.Equal(t, "SKU-1", f.SKU)
	assert.Equal(t, "MLB123", f.ListingID)
	assert.Equal(t, "Oil filter", f.ProductName)
	assert.Equal(t, "active", f.Status)
	assert.Equal(t, 12, f.Sales30d)
	assert.Equal(t, 1200, f.StockOnHand)
	assert.Equal(t, 3, f.PromoteQty)
	assert.Equal(t, 0, f.FixQty)
	assert.Equal(t, 0, f.DiscardRiskQty)
	assert.Equal(t, "30 days", f.TimeToExhaust)

	// A short row yields zero values instead of failing.
	assert.Equal(t, "", facts[1].SKU)
	assert.Equal(t, 0, facts[1].Sales30d)
}
