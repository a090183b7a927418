package fullreport

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Field names a value consumed from an extract row.
type Field string

const (
	FieldSKU                Field = "sku"
	FieldListingID          Field = "listing_id"
	FieldProductName        Field = "product_name"
	FieldStatus             Field = "status"
	FieldSales30d           Field = "sales_30d"
	FieldAffectsStockMetric Field = "affects_stock_metric"
	FieldPendingInbound     Field = "pending_inbound"
	FieldEligibleUnits      Field = "eligible_units"
	FieldIneligibleUnits    Field = "ineligible_units"
	FieldStockOnHand        Field = "stock_on_hand"
	FieldMonitorQty         Field = "monitor_qty"
	FieldPromoteQty         Field = "promote_qty"
	FieldFixQty             Field = "fix_qty"
	FieldDiscardRiskQty     Field = "discard_risk_qty"
	FieldTimeToExhaust      Field = "time_to_exhaust"

	FieldAgedStockUnits    Field = "aged_stock_units"
	FieldAgedStockDays     Field = "aged_stock_days"
	FieldTotalCost         Field = "total_cost"
	FieldEligibleCostUnits Field = "eligible_cost_units"
)

// ColumnSpec binds a field to a spreadsheet column letter.
type ColumnSpec struct {
	Field  Field
	Column string
}

// ColumnMap is the ordered positional layout of an extract.
type ColumnMap []ColumnSpec

// DefaultFullColumns is the layout of the "Resumo" sheet of the full report.
var DefaultFullColumns = ColumnMap{
	{FieldSKU, "D"},
	{FieldListingID, "E"},
	{FieldProductName, "F"},
	{FieldStatus, "I"},
	{FieldSales30d, "K"},
	{FieldAffectsStockMetric, "L"},
	{FieldPendingInbound, "M"},
	{FieldEligibleUnits, "P"},
	{FieldIneligibleUnits, "Q"},
	{FieldStockOnHand, "U"},
	{FieldMonitorQty, "W"},
	{FieldPromoteQty, "X"},
	{FieldFixQty, "Y"},
	{FieldDiscardRiskQty, "Z"},
	{FieldTimeToExhaust, "AA"},
}

// DefaultCostColumns is the layout of the historical cost sheet.
var DefaultCostColumns = ColumnMap{
	{FieldSKU, "C"},
	{FieldAgedStockUnits, "F"},
	{FieldAgedStockDays, "I"},
	{FieldTotalCost, "K"},
	{FieldEligibleCostUnits, "L"},
}

// ColumnIndex maps fields to 0-based cell positions.
type ColumnIndex map[Field]int

// Resolve converts the column letters to 0-based positions.
func (m ColumnMap) Resolve() (ColumnIndex, error) {
	idx := make(ColumnIndex, len(m))
	for _, col := range m {
		if _, dup := idx[col.Field]; dup {
			return nil, fmt.Errorf("field %s mapped more than once", col.Field)
		}
		n, err := excelize.ColumnNameToNumber(strings.TrimSpace(col.Column))
		if err != nil {
			return nil, fmt.Errorf("invalid column %q for field %s: %w", col.Column, col.Field, err)
		}
		idx[col.Field] = n - 1
	}
	return idx, nil
}

// Cell returns the cell of row mapped to f, or an empty cell when the row is
// shorter than the mapped position or the field is not mapped.
func (ix ColumnIndex) Cell(row Row, f Field) Cell {
	pos, ok := ix[f]
	if !ok || pos < 0 || pos >= len(row) {
		return Cell{}
	}
	return row[pos]
}

// Require fails when any of the given fields is missing from the index.
func (ix ColumnIndex) Require(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if _, ok := ix[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("column map is missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
