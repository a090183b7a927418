package fullreport

import (
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/fullstock/internal/domain"
)

// cells beyond this magnitude cannot be represented exactly and are treated as malformed
const maxExactInt = 1 << 53

var localeNumberCleaner = strings.NewReplacer(".", "", ",", ".")

// ParseFloatOrDefault coerces a cell to a float. Typed numeric cells are read
// as-is; text cells use "." as thousands separator and "," as decimal
// separator ("1.234,56" => 1234.56). Anything unparsable yields 0.
func ParseFloatOrDefault(c Cell) float64 {
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return 0
	}
	if c.Numeric {
		if f, ok := parseFinite(v); ok {
			return f
		}
	}
	if f, ok := parseFinite(localeNumberCleaner.Replace(v)); ok {
		return f
	}
	return 0
}

// ParseIntOrDefault coerces a cell like ParseFloatOrDefault and truncates the
// result toward zero.
func ParseIntOrDefault(c Cell) int {
	f := ParseFloatOrDefault(c)
	if math.Abs(f) > maxExactInt {
		return 0
	}
	return int(math.Trunc(f))
}

// NormalizeString trims a cell's text.
func NormalizeString(c Cell) string {
	return strings.TrimSpace(c.Value)
}

func parseFinite(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizeFullRows turns raw full-report rows into unclassified SKU facts.
// Rows never fail: malformed cells become zero or empty values.
func NormalizeFullRows(rows []Row, ix ColumnIndex) []domain.SkuFact {
	facts := make([]domain.SkuFact, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, domain.SkuFact{
			SKU:                NormalizeString(ix.Cell(row, FieldSKU)),
			ListingID:          NormalizeString(ix.Cell(row, FieldListingID)),
			ProductName:        NormalizeString(ix.Cell(row, FieldProductName)),
			Status:             strings.ToLower(NormalizeString(ix.Cell(row, FieldStatus))),
			Sales30d:           ParseIntOrDefault(ix.Cell(row, FieldSales30d)),
			AffectsStockMetric: NormalizeString(ix.Cell(row, FieldAffectsStockMetric)),
			PendingInbound:     NormalizeString(ix.Cell(row, FieldPendingInbound)),
			EligibleUnits:      ParseIntOrDefault(ix.Cell(row, FieldEligibleUnits)),
			IneligibleUnits:    ParseIntOrDefault(ix.Cell(row, FieldIneligibleUnits)),
			StockOnHand:        ParseIntOrDefault(ix.Cell(row, FieldStockOnHand)),
			MonitorQty:         ParseIntOrDefault(ix.Cell(row, FieldMonitorQty)),
			PromoteQty:         ParseIntOrDefault(ix.Cell(row, FieldPromoteQty)),
			FixQty:             ParseIntOrDefault(ix.Cell(row, FieldFixQty)),
			DiscardRiskQty:     ParseIntOrDefault(ix.Cell(row, FieldDiscardRiskQty)),
			TimeToExhaust:      NormalizeString(ix.Cell(row, FieldTimeToExhaust)),
		})
	}
	return facts
}

// costLine is one normalized row of the cost extract before aggregation.
type costLine struct {
	SKU               string
	AgedStockUnits    float64
	AgedStockDays     float64
	TotalCost         float64
	EligibleCostUnits float64
}

func normalizeCostRows(rows []Row, ix ColumnIndex) []costLine {
	lines := make([]costLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, costLine{
			SKU:               NormalizeString(ix.Cell(row, FieldSKU)),
			AgedStockUnits:    ParseFloatOrDefault(ix.Cell(row, FieldAgedStockUnits)),
			AgedStockDays:     ParseFloatOrDefault(ix.Cell(row, FieldAgedStockDays)),
			TotalCost:         ParseFloatOrDefault(ix.Cell(row, FieldTotalCost)),
			EligibleCostUnits: ParseFloatOrDefault(ix.Cell(row, FieldEligibleCostUnits)),
		})
	}
	return lines
}
