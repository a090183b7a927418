package domain

import "github.com/shopspring/decimal"

// CompanySummary carries the headline figures of one company's records.
type CompanySummary struct {
	Company      Company           `json:"company"`
	SKUCount     int               `json:"sku_count"`
	Sales30d     int               `json:"sales_30d"`
	StockOnHand  int               `json:"stock_on_hand"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
	AlertCounts  map[CostAlert]int `json:"alert_counts"`
	ActionCounts map[Action]int    `json:"action_counts"`
	Display      map[string]string `json:"display"`
}

// ConsolidatedSummary carries the headline figures of the consolidated view.
type ConsolidatedSummary struct {
	Companies  []Company         `json:"companies"`
	SKUCount   int               `json:"sku_count"`
	Sales30d   int               `json:"sales_30d"`
	TotalStock int               `json:"total_stock"`
	TotalCost  decimal.Decimal   `json:"total_cost"`
	Display    map[string]string `json:"display"`
}

// RecordFilter narrows a company's records the way the dashboard does.
type RecordFilter struct {
	Alerts  []CostAlert
	Actions []Action
	Search  string
}
