package fullreport

import (
	"strings"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/shopspring/decimal"
)

// SummarizeCompany computes the KPI card figures of one company's records.
func SummarizeCompany(company domain.Company, records []domain.SkuFact) domain.CompanySummary {
	s := domain.CompanySummary{
		Company:      company,
		SKUCount:     len(records),
		TotalCost:    decimal.Zero,
		AlertCounts:  make(map[domain.CostAlert]int, len(domain.CostAlerts())),
		ActionCounts: make(map[domain.Action]int, len(domain.Actions())),
	}
	for _, a := range domain.CostAlerts() {
		s.AlertCounts[a] = 0
	}
	for _, a := range domain.Actions() {
		s.ActionCounts[a] = 0
	}

	for _, r := range records {
		s.Sales30d += r.Sales30d
		s.StockOnHand += r.StockOnHand
		s.TotalCost = s.TotalCost.Add(r.TotalCost)
		s.AlertCounts[r.CostAlert]++
		s.ActionCounts[r.RecommendedAction]++
	}

	s.Display = map[string]string{
		"sku_count":     FormatLocaleInt(s.SKUCount),
		"sales_30d":     FormatLocaleInt(s.Sales30d),
		"stock_on_hand": FormatLocaleInt(s.StockOnHand),
		"total_cost":    FormatCurrency(s.TotalCost.InexactFloat64()),
	}
	return s
}

// SummarizeConsolidated computes the KPI card figures of the consolidated view.
func SummarizeConsolidated(held []domain.Company, consolidated []domain.ConsolidatedSkuFact) domain.ConsolidatedSummary {
	s := domain.ConsolidatedSummary{
		Companies: append([]domain.Company{}, held...),
		SKUCount:  len(consolidated),
		TotalCost: decimal.Zero,
	}
	for _, c := range consolidated {
		s.Sales30d += c.TotalSales30d
		s.TotalStock += c.TotalStock
		s.TotalCost = s.TotalCost.Add(c.TotalCost)
	}

	s.Display = map[string]string{
		"sku_count":   FormatLocaleInt(s.SKUCount),
		"sales_30d":   FormatLocaleInt(s.Sales30d),
		"total_stock": FormatLocaleInt(s.TotalStock),
		"total_cost":  FormatCurrency(s.TotalCost.InexactFloat64()),
	}
	return s
}

// FilterRecords keeps the records matching every non-empty criterion of f.
// Search is a case-insensitive substring match on SKU or product name.
func FilterRecords(records []domain.SkuFact, f domain.RecordFilter) []domain.SkuFact {
	alerts := make(map[domain.CostAlert]struct{}, len(f.Alerts))
	for _, a := range f.Alerts {
		alerts[a] = struct{}{}
	}
	actions := make(map[domain.Action]struct{}, len(f.Actions))
	for _, a := range f.Actions {
		actions[a] = struct{}{}
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]domain.SkuFact, 0, len(records))
	for _, r := range records {
		if len(alerts) > 0 {
			if _, ok := alerts[r.CostAlert]; !ok {
				continue
			}
		}
		if len(actions) > 0 {
			if _, ok := actions[r.RecommendedAction]; !ok {
				continue
			}
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.SKU), term) &&
			!strings.Contains(strings.ToLower(r.ProductName), term) {
			continue
		}
		out = append(out, r)
	}
	return out
}
