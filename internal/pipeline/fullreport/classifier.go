package fullreport

import "github.com/andresuchdata/fullstock/internal/domain"

const (
	statusActive   = "active"
	statusAtivo    = "ativo"
	statusNotKnown = "n/a"
)

// Included reports whether a normalized row takes part in the analysis:
// active listings, plus listings without status that still hold stock.
func Included(f domain.SkuFact) bool {
	switch f.Status {
	case statusActive, statusAtivo:
		return true
	case statusNotKnown:
		return f.StockOnHand > 0
	default:
		return false
	}
}

// Recommend evaluates the stock rules in order; the first match wins.
func Recommend(f domain.SkuFact) domain.Action {
	switch {
	case f.Sales30d == 0 && f.DiscardRiskQty > 0:
		return domain.ActionEvaluateRemoval
	case f.StockOnHand < 5 && f.Sales30d >= 10:
		return domain.ActionReplenishNow
	case f.PromoteQty > 100:
		return domain.ActionAggressiveCampaign
	case f.PromoteQty > 0 && f.Sales30d >= 3:
		return domain.ActionTurnoverCampaign
	case f.FixQty > 0 && f.Sales30d > 5:
		return domain.ActionFixListing
	case f.Sales30d < 5 && f.StockOnHand > 10:
		return domain.ActionAvoidReplenishment
	default:
		return domain.ActionNoAction
	}
}

// Classify drops excluded rows and assigns a recommended action to the rest.
// The input slice is left untouched.
func Classify(facts []domain.SkuFact) []domain.SkuFact {
	out := make([]domain.SkuFact, 0, len(facts))
	for _, f := range facts {
		if !Included(f) {
			continue
		}
		f.RecommendedAction = Recommend(f)
		out = append(out, f)
	}
	return out
}
