package domain

import "github.com/shopspring/decimal"

// Company identifies one of the selling accounts whose extracts are processed.
type Company string

// DefaultCompanies is the fixed company set used when none is configured.
var DefaultCompanies = []Company{"VALE RACE", "VANPARTS", "MOTOILBR", "LUB EXPRESS"}

// SkuFact is one SKU of one company after normalization, classification and
// cost attribution.
type SkuFact struct {
	SKU                string `json:"sku"`
	ListingID          string `json:"listing_id"`
	ProductName        string `json:"product_name"`
	Status             string `json:"status"`
	Sales30d           int    `json:"sales_30d"`
	AffectsStockMetric string `json:"affects_stock_metric"`
	PendingInbound     string `json:"pending_inbound"`
	EligibleUnits      int    `json:"eligible_units"`
	IneligibleUnits    int    `json:"ineligible_units"`
	StockOnHand        int    `json:"stock_on_hand"`
	MonitorQty         int    `json:"monitor_qty"`
	PromoteQty         int    `json:"promote_qty"`
	FixQty             int    `json:"fix_qty"`
	DiscardRiskQty     int    `json:"discard_risk_qty"`
	TimeToExhaust      string `json:"time_to_exhaust"`

	RecommendedAction Action `json:"recommended_action"`

	AgedStockUnits    float64         `json:"aged_stock_units"`
	AgedStockDays     int             `json:"aged_stock_days"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	EligibleCostUnits float64         `json:"eligible_cost_units"`
	CostAlert         CostAlert       `json:"cost_alert"`
}

// CostFacts holds the per-SKU aggregate of the historical cost extract.
type CostFacts struct {
	SKU               string          `json:"sku"`
	AgedStockUnits    float64         `json:"aged_stock_units"`
	AgedStockDays     int             `json:"aged_stock_days"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	EligibleCostUnits float64         `json:"eligible_cost_units"`
}

// CompanyFigures are the quantities a single company contributes to a SKU.
type CompanyFigures struct {
	Sales30d    int `json:"sales_30d"`
	StockOnHand int `json:"stock_on_hand"`
}

// ConsolidatedSkuFact merges every held company's record for one SKU.
type ConsolidatedSkuFact struct {
	SKU               string                     `json:"sku"`
	ProductName       string                     `json:"product_name"`
	PerCompany        map[Company]CompanyFigures `json:"per_company"`
	TotalSales30d     int                        `json:"total_sales_30d"`
	TotalStock        int                        `json:"total_stock"`
	TotalCost         decimal.Decimal            `json:"total_cost"`
	CompaniesInvolved []Company                  `json:"companies_involved"`
	RecommendedAction Action                     `json:"recommended_action"`
	CostAlert         CostAlert                  `json:"cost_alert"`
	MarginRatio       float64                    `json:"margin_ratio"`
}

// VelocityTier classifies a SKU's daily sales rate.
type VelocityTier string

const (
	VelocityHigh   VelocityTier = "High"
	VelocityMedium VelocityTier = "Medium"
	VelocityLow    VelocityTier = "Low"
)

// Urgency classifies current stock against the suggested quantity.
type Urgency string

const (
	UrgencyStockout    Urgency = "Total stockout"
	UrgencyUrgent      Urgency = "Urgent replenishment"
	UrgencyRecommended Urgency = "Replenishment recommended"
	UrgencyOK          Urgency = "OK"
)

var urgencyRank = map[Urgency]int{
	UrgencyStockout:    0,
	UrgencyUrgent:      1,
	UrgencyRecommended: 2,
	UrgencyOK:          3,
}

// Rank orders urgencies from most to least severe.
func (u Urgency) Rank() int {
	if r, ok := urgencyRank[u]; ok {
		return r
	}
	return len(urgencyRank)
}

// ReplenishmentLine is the simulated reorder suggestion for a consolidated SKU.
type ReplenishmentLine struct {
	SKU           string       `json:"sku"`
	ProductName   string       `json:"product_name"`
	TotalSales30d int          `json:"total_sales_30d"`
	TotalStock    int          `json:"total_stock"`
	DailyVelocity float64      `json:"daily_velocity"`
	Tier          VelocityTier `json:"velocity_tier"`
	Multiplier    float64      `json:"multiplier"`
	Buffer        int          `json:"buffer"`
	SuggestedQty  int          `json:"suggested_qty"`
	Urgency       Urgency      `json:"urgency"`
	Calculation   string       `json:"calculation"`
}
