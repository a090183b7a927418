package fullreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnMapResolve(t *testing.T) {
	ix, err := DefaultFullColumns.Resolve()
	require.NoError(t, err)

	assert.Equal(t, 3, ix[FieldSKU])
	assert.Equal(t, 8, ix[FieldStatus])
	assert.Equal(t, 20, ix[FieldStockOnHand])
	assert.Equal(t, 26, ix[FieldTimeToExhaust])

	cost, err := DefaultCostColumns.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, cost[FieldSKU])
	assert.Equal(t, 10, cost[FieldTotalCost])
}

func TestColumnMapResolveErrors(t *testing.T) {
	_, err := ColumnMap{{FieldSKU, "A"}, {FieldSKU, "B"}}.Resolve()
	assert.Error(t, err)

	_, err = ColumnMap{{FieldSKU, "1"}}.Resolve()
	assert.Error(t, err)
}

func TestColumnIndexCell(t *testing.T) {
	ix := ColumnIndex{FieldSKU: 1}

	assert.Equal(t, Cell{Value: "x"}, ix.Cell(Row{{}, {Value: "x"}}, FieldSKU))
	assert.Equal(t, Cell{}, ix.Cell(Row{{Value: "only"}}, FieldSKU))
	assert.Equal(t, Cell{}, ix.Cell(Row{{}, {Value: "x"}}, FieldStatus))
}

func TestColumnIndexRequire(t *testing.T) {
	ix := ColumnIndex{FieldSKU: 0}
	assert.NoError(t, ix.Require(FieldSKU))

	err := ix.Require(FieldSKU, FieldStatus, FieldSales30d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
	assert.Contains(t, err.Error(), "sales_30d")
}
