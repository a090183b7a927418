package fullreport

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/andresuchdata/fullstock/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func costSheetRow(sku string, units, days, total, eligible interface{}) []interface{} {
	row := make([]interface{}, 12)
	for i := range row {
		row[i] = ""
	}
	row[2] = sku
	row[5] = units
	row[8] = days
	row[10] = total
	row[11] = eligible
	return row
}

func fullReportFixture(t *testing.T) []byte {
	rows := append(padding(DefaultFullStartRow),
		fullReportRow("A", "Oil", "Active", 12, 2),
		fullReportRow("B", "Filter", "Inactive", 50, 50),
		fullReportRow("C", "Chain", "n/a", 0, 20),
	)
	return buildWorkbook(t, sheetFixture{name: "Sheet1", rows: [][]interface{}{{"cover"}}}, sheetFixture{name: DefaultFullSheet, rows: rows})
}

func costFixture(t *testing.T) []byte {
	rows := append(padding(DefaultCostStartRow),
		costSheetRow("A", 2, 40, 120.5, 1),
		costSheetRow("A", 1, 20, 40, 1),
		costSheetRow("C", 5, 90, 99.99, 5),
	)
	return buildWorkbook(t, sheetFixture{name: DefaultCostSheet, rows: rows})
}

func newPipeline(t *testing.T) *FullReportPipeline {
	p, err := NewFullReportPipeline(DefaultConfig())
	require.NoError(t, err)
	return p
}

func TestFullReportPipelineTransform(t *testing.T) {
	p := newPipeline(t)
	job := pipeline.Job{
		Company: "VALE RACE",
		Full:    pipeline.BytesSource("full.xlsx", fullReportFixture(t)),
		Cost:    pipeline.BytesSource("cost.xlsx", costFixture(t)),
	}

	require.NoError(t, p.Validate(job))
	records, err := p.Transform(context.Background(), job)
	require.NoError(t, err)

	require.Len(t, records, 2)
	a, c := records[0], records[1]

	assert.Equal(t, "A", a.SKU)
	assert.Equal(t, "active", a.Status)
	assert.Equal(t, domain.ActionReplenishNow, a.RecommendedAction)
	assert.Equal(t, "160.5", a.TotalCost.String())
	assert.Equal(t, domain.AlertRed, a.CostAlert)
	assert.Equal(t, 30, a.AgedStockDays)
	assert.Equal(t, 3.0, a.AgedStockUnits)

	assert.Equal(t, "C", c.SKU)
	assert.Equal(t, domain.ActionAvoidReplenishment, c.RecommendedAction)
	assert.Equal(t, domain.AlertNoUrgency, c.CostAlert)
}

func TestFullReportPipelineWithoutCost(t *testing.T) {
	p := newPipeline(t)
	records, err := p.Transform(context.Background(), pipeline.Job{
		Company: "VANPARTS",
		Full:    pipeline.BytesSource("full.xlsx", fullReportFixture(t)),
	})
	require.NoError(t, err)

	require.Len(t, records, 2)
	for _, r := range records {
		assert.True(t, r.TotalCost.IsZero())
		assert.Equal(t, domain.AlertNoCost, r.CostAlert)
	}
}

func TestFullReportPipelineCSVMatchesXLSX(t *testing.T) {
	p := newPipeline(t)

	var b strings.Builder
	for i := 0; i < DefaultFullStartRow; i++ {
		b.WriteString("header line\n")
	}
	line := func(sku, product, status, sales, stock string) {
		cells := make([]string, 27)
		cells[3], cells[4], cells[5], cells[8], cells[10], cells[20] = sku, "MLB-"+sku, product, status, sales, stock
		b.WriteString(strings.Join(cells, ";") + "\n")
	}
	line("A", "Oil", "Active", "12", "2")
	line("B", "Filter", "Inactive", "50", "50")
	line("C", "Chain", "n/a", "0", "20")

	fromCSV, err := p.Transform(context.Background(), pipeline.Job{Full: pipeline.BytesSource("full.csv", []byte(b.String()))})
	require.NoError(t, err)
	fromXLSX, err := p.Transform(context.Background(), pipeline.Job{Full: pipeline.BytesSource("full.xlsx", fullReportFixture(t))})
	require.NoError(t, err)

	assert.Equal(t, fromXLSX, fromCSV)
}

func TestFullReportPipelineValidate(t *testing.T) {
	p := newPipeline(t)

	err := p.Validate(pipeline.Job{Company: "VALE RACE"})
	assert.ErrorIs(t, err, domain.ErrMissingFullReport)

	err = p.Validate(pipeline.Job{Full: pipeline.BytesSource("full.pdf", nil)})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	err = p.Validate(pipeline.Job{
		Full: pipeline.BytesSource("full.xlsx", nil),
		Cost: pipeline.BytesSource("cost.ods", nil),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestFullReportPipelineOpenError(t *testing.T) {
	p := newPipeline(t)
	boom := errors.New("boom")
	_, err := p.Transform(context.Background(), pipeline.Job{
		Full: pipeline.BytesSource("full.xlsx", fullReportFixture(t)),
		Cost: &pipeline.Source{
			Name: "cost.xlsx",
			Open: func(context.Context) (io.ReadCloser, error) { return nil, boom },
		},
	})
	assert.ErrorIs(t, err, boom)
}

func TestNewFullReportPipelineRejectsBadColumns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FullColumns = ColumnMap{{FieldSKU, "D"}}
	_, err := NewFullReportPipeline(cfg)
	assert.Error(t, err)
}
