package fullreport

import (
	"testing"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/stretchr/testify/require"
)

// textRow builds a row of text cells placing each value at its mapped column.
func textRow(t *testing.T, m ColumnMap, values map[Field]string) Row {
	t.Helper()
	ix, err := m.Resolve()
	require.NoError(t, err)

	width := 0
	for _, pos := range ix {
		if pos+1 > width {
			width = pos + 1
		}
	}
	row := make(Row, width)
	for f, v := range values {
		pos, ok := ix[f]
		require.True(t, ok, "field %s not mapped", f)
		row[pos] = Cell{Value: v}
	}
	return row
}

func mustIndex(t *testing.T, m ColumnMap) ColumnIndex {
	t.Helper()
	ix, err := m.Resolve()
	require.NoError(t, err)
	return ix
}

func fact(sku, status string, sales, stock int) domain.SkuFact {
	return domain.SkuFact{SKU: sku, ProductName: "Product " + sku, Status: status, Sales30d: sales, StockOnHand: stock}
}
