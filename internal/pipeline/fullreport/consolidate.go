package fullreport

import (
	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/shopspring/decimal"
)

// Consolidate merges the held companies' records into one record per SKU.
// Quantities are summed; the recommended action and cost alert keep the most
// urgent label seen for the SKU. Records with an empty SKU are skipped.
//
// Companies are folded in known-company order and rows in their stored order,
// which only affects the output order and the first-seen product name.
func Consolidate(snapshot domain.SessionSnapshot) []domain.ConsolidatedSkuFact {
	held := snapshot.Held()
	order := make([]string, 0)
	buckets := make(map[string]*domain.ConsolidatedSkuFact)

	for _, company := range held {
		for _, r := range snapshot.Records[company] {
			if r.SKU == "" {
				continue
			}
			b, ok := buckets[r.SKU]
			if !ok {
				b = newBucket(r, snapshot.Known)
				buckets[r.SKU] = b
				order = append(order, r.SKU)
			}
			fold(b, company, r)
		}
	}

	out := make([]domain.ConsolidatedSkuFact, 0, len(order))
	for _, sku := range order {
		b := buckets[sku]
		b.MarginRatio = MarginRatio(b.TotalSales30d, b.TotalCost)
		out = append(out, *b)
	}
	return out
}

func newBucket(first domain.SkuFact, known []domain.Company) *domain.ConsolidatedSkuFact {
	per := make(map[domain.Company]domain.CompanyFigures, len(known))
	for _, c := range known {
		per[c] = domain.CompanyFigures{}
	}
	return &domain.ConsolidatedSkuFact{
		SKU:               first.SKU,
		ProductName:       first.ProductName,
		PerCompany:        per,
		TotalCost:         decimal.Zero,
		CompaniesInvolved: make([]domain.Company, 0, 1),
		RecommendedAction: domain.ActionNoAction,
		CostAlert:         domain.AlertNoCost,
	}
}

func fold(b *domain.ConsolidatedSkuFact, company domain.Company, r domain.SkuFact) {
	fig := b.PerCompany[company]
	fig.Sales30d += r.Sales30d
	fig.StockOnHand += r.StockOnHand
	b.PerCompany[company] = fig

	b.TotalSales30d += r.Sales30d
	b.TotalStock += r.StockOnHand
	b.TotalCost = b.TotalCost.Add(r.TotalCost)

	if !containsCompany(b.CompaniesInvolved, company) {
		b.CompaniesInvolved = append(b.CompaniesInvolved, company)
	}

	b.RecommendedAction = domain.MaxAction(b.RecommendedAction, r.RecommendedAction)
	b.CostAlert = domain.MaxCostAlert(b.CostAlert, r.CostAlert)
}

// MarginRatio is total 30-day sales over total aged-stock cost, 0 without cost.
func MarginRatio(totalSales int, totalCost decimal.Decimal) float64 {
	if !totalCost.IsPositive() {
		return 0
	}
	return float64(totalSales) / totalCost.InexactFloat64()
}

func containsCompany(list []domain.Company, c domain.Company) bool {
	for _, existing := range list {
		if existing == c {
			return true
		}
	}
	return false
}
