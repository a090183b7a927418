package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func record(sku string, sales, stock int, cost int64) domain.SkuFact {
	return domain.SkuFact{
		SKU:               sku,
		ProductName:       "Product " + sku,
		Status:            "active",
		Sales30d:          sales,
		StockOnHand:       stock,
		TotalCost:         decimal.NewFromInt(cost),
		RecommendedAction: domain.ActionNoAction,
		CostAlert:         domain.AlertNoUrgency,
	}
}

func snapshot(records map[domain.Company][]domain.SkuFact) domain.SessionSnapshot {
	return domain.SessionSnapshot{SessionID: "s", Known: domain.DefaultCompanies, Records: records}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestBuildWorkbookSingleCompany(t *testing.T) {
	snap := snapshot(map[domain.Company][]domain.SkuFact{
		"VANPARTS": {record("A", 45, 0, 10)},
	})

	data, err := BuildWorkbook(snap)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"VANPARTS"}, f.GetSheetList())
	assert.Equal(t, SheetNames(snap), f.GetSheetList())

	rows, err := f.GetRows("VANPARTS")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, companyHeader, rows[0])
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "45", rows[1][3])
}

func TestBuildWorkbookMultipleCompanies(t *testing.T) {
	snap := snapshot(map[domain.Company][]domain.SkuFact{
		"LUB EXPRESS": {record("A", 30, 1, 10)},
		"VALE RACE":   {record("A", 15, 0, 5), record("B", 3, 10, 0)},
	})

	data, err := BuildWorkbook(snap)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"VALE RACE", "LUB EXPRESS", SheetConsolidated, SheetReplenishment}, f.GetSheetList())

	consolidated, err := f.GetRows(SheetConsolidated)
	require.NoError(t, err)
	require.Len(t, consolidated, 3)
	assert.Equal(t, "Sales VALE RACE", consolidated[0][2])
	assert.Equal(t, "A", consolidated[1][0])
	assert.Equal(t, "VALE RACE, LUB EXPRESS", consolidated[1][13])

	replenishment, err := f.GetRows(SheetReplenishment)
	require.NoError(t, err)
	require.Len(t, replenishment, 3)
	assert.Equal(t, replenishmentHeader, replenishment[0])
	// A: 45 sales, 1 in stock => urgent; B: 3 sales, 10 in stock => OK
	assert.Equal(t, "A", replenishment[1][0])
	assert.Equal(t, string(domain.UrgencyUrgent), replenishment[1][5])
	assert.Equal(t, "B", replenishment[2][0])
}

func TestBuildWorkbookEmpty(t *testing.T) {
	_, err := BuildWorkbook(snapshot(nil))
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "VALE RACE", SheetName("VALE RACE"))
	assert.Equal(t, "A B", SheetName("A/B"))
	long := strings.Repeat("x", 40)
	assert.Len(t, SheetName(long), 31)
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 7, 0, 0, time.UTC)
	assert.Equal(t, "AnaliseFull_2024-03-05_09h07m.xlsx", FileName(now))
}
