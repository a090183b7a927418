package fullreport

import (
	"fmt"
	"math"
	"sort"

	"github.com/andresuchdata/fullstock/internal/domain"
)

const (
	salesWindowDays = 30.0
	coverDays       = 15.0
)

type velocityBand struct {
	tier       domain.VelocityTier
	multiplier float64
	buffer     int
}

var (
	bandHigh   = velocityBand{domain.VelocityHigh, 1.3, 2}
	bandMedium = velocityBand{domain.VelocityMedium, 1.2, 1}
	bandLow    = velocityBand{domain.VelocityLow, 1.1, 0}
)

func bandFor(dailyVelocity float64) velocityBand {
	switch {
	case dailyVelocity > 1:
		return bandHigh
	case dailyVelocity >= 0.3:
		return bandMedium
	default:
		return bandLow
	}
}

// UrgencyFor compares total stock with the suggested reorder quantity.
func UrgencyFor(totalStock, suggestedQty int) domain.Urgency {
	switch {
	case totalStock == 0:
		return domain.UrgencyStockout
	case float64(totalStock) < float64(suggestedQty)*0.5:
		return domain.UrgencyUrgent
	case totalStock < suggestedQty:
		return domain.UrgencyRecommended
	default:
		return domain.UrgencyOK
	}
}

// SimulateLine derives the replenishment suggestion for one consolidated SKU.
func SimulateLine(c domain.ConsolidatedSkuFact) domain.ReplenishmentLine {
	velocity := float64(c.TotalSales30d) / salesWindowDays
	band := bandFor(velocity)
	qty := int(math.RoundToEven(velocity*coverDays*band.multiplier + float64(band.buffer)))

	return domain.ReplenishmentLine{
		SKU:           c.SKU,
		ProductName:   c.ProductName,
		TotalSales30d: c.TotalSales30d,
		TotalStock:    c.TotalStock,
		DailyVelocity: velocity,
		Tier:          band.tier,
		Multiplier:    band.multiplier,
		Buffer:        band.buffer,
		SuggestedQty:  qty,
		Urgency:       UrgencyFor(c.TotalStock, qty),
		Calculation:   fmt.Sprintf("Avg %.2f × %g × %g + %d = %d", velocity, coverDays, band.multiplier, band.buffer, qty),
	}
}

// Simulate derives a suggestion for every consolidated SKU and returns them
// in canonical order (see SortReplenishment).
func Simulate(consolidated []domain.ConsolidatedSkuFact) []domain.ReplenishmentLine {
	lines := make([]domain.ReplenishmentLine, 0, len(consolidated))
	for _, c := range consolidated {
		lines = append(lines, SimulateLine(c))
	}
	SortReplenishment(lines)
	return lines
}

// SortReplenishment orders lines by urgency severity (stockout first), then by
// suggested quantity descending, then by SKU.
func SortReplenishment(lines []domain.ReplenishmentLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.Urgency.Rank() != b.Urgency.Rank() {
			return a.Urgency.Rank() < b.Urgency.Rank()
		}
		if a.SuggestedQty != b.SuggestedQty {
			return a.SuggestedQty > b.SuggestedQty
		}
		return a.SKU < b.SKU
	})
}
