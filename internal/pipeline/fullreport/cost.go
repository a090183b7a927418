package fullreport

import (
	"math"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	redAlertAbove   = decimal.NewFromInt(150)
	evaluateAtLeast = decimal.NewFromInt(101)
)

// CostAlertFor maps an aged-stock cost to its alert tier.
func CostAlertFor(total decimal.Decimal) domain.CostAlert {
	switch {
	case total.GreaterThan(redAlertAbove):
		return domain.AlertRed
	case total.GreaterThanOrEqual(evaluateAtLeast):
		return domain.AlertEvaluateTurnover
	case total.IsZero():
		return domain.AlertNoCost
	default:
		return domain.AlertNoUrgency
	}
}

// AggregateCosts groups the cost extract by SKU. Units and cost are summed;
// aged days is the mean of the raw row values, rounded to a whole day.
func AggregateCosts(rows []Row, ix ColumnIndex) map[string]domain.CostFacts {
	type acc struct {
		units, eligible, daysSum float64
		days                     int
		cost                     decimal.Decimal
	}

	order := make([]string, 0)
	byKey := make(map[string]*acc)
	for _, line := range normalizeCostRows(rows, ix) {
		if line.SKU == "" {
			continue
		}
		a, ok := byKey[line.SKU]
		if !ok {
			a = &acc{}
			byKey[line.SKU] = a
			order = append(order, line.SKU)
		}
		a.units += line.AgedStockUnits
		a.eligible += line.EligibleCostUnits
		a.daysSum += line.AgedStockDays
		a.days++
		a.cost = a.cost.Add(decimal.NewFromFloat(line.TotalCost))
	}

	out := make(map[string]domain.CostFacts, len(byKey))
	for _, sku := range order {
		a := byKey[sku]
		out[sku] = domain.CostFacts{
			SKU:               sku,
			AgedStockUnits:    a.units,
			AgedStockDays:     int(math.RoundToEven(a.daysSum / float64(a.days))),
			TotalCost:         a.cost,
			EligibleCostUnits: a.eligible,
		}
	}
	return out
}

// AttributeCosts left-joins aggregated cost facts onto classified records and
// assigns the cost alert. A nil cost map behaves exactly like a map without
// matching SKUs.
func AttributeCosts(facts []domain.SkuFact, costs map[string]domain.CostFacts) []domain.SkuFact {
	out := make([]domain.SkuFact, len(facts))
	for i, f := range facts {
		c := costs[f.SKU]
		f.AgedStockUnits = roundHalfEven(c.AgedStockUnits, 0)
		f.AgedStockDays = c.AgedStockDays
		f.TotalCost = c.TotalCost.RoundBank(2)
		f.EligibleCostUnits = roundHalfEven(c.EligibleCostUnits, 0)
		f.CostAlert = CostAlertFor(f.TotalCost)
		out[i] = f
	}
	return out
}
