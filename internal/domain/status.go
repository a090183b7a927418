package domain

import "strings"

// Action is the stock recommendation assigned to a SKU by the classifier.
type Action string

const (
	ActionReplenishNow       Action = "Replenish immediately"
	ActionFixListing         Action = "Fix listing and replenish"
	ActionAggressiveCampaign Action = "Aggressive turnover campaign"
	ActionTurnoverCampaign   Action = "Turnover campaign / reduce stock"
	ActionEvaluateRemoval    Action = "Evaluate removal / no replenishment"
	ActionAvoidReplenishment Action = "Avoid replenishment / create promotion"
	ActionNoAction           Action = "No action defined"
)

// older extracts and exports spell the priority-1 action this way
const actionAvoidReplenishmentOld = "Avoid replenishment / promotion"

// CostAlert is the tier derived from a SKU's aged-stock cost.
type CostAlert string

const (
	AlertRed              CostAlert = "Red alert"
	AlertEvaluateTurnover CostAlert = "Evaluate turnover"
	AlertNoUrgency        CostAlert = "No urgency"
	AlertNoCost           CostAlert = "No cost"
)

var actionPriority = map[Action]int{
	ActionReplenishNow:       6,
	ActionFixListing:         5,
	ActionAggressiveCampaign: 4,
	ActionTurnoverCampaign:   3,
	ActionEvaluateRemoval:    2,
	ActionAvoidReplenishment: 1,
	ActionNoAction:           0,
}

var alertPriority = map[CostAlert]int{
	AlertRed:              3,
	AlertEvaluateTurnover: 2,
	AlertNoUrgency:        1,
	AlertNoCost:           0,
}

// Actions lists every canonical action, most urgent first.
func Actions() []Action {
	return []Action{
		ActionReplenishNow,
		ActionFixListing,
		ActionAggressiveCampaign,
		ActionTurnoverCampaign,
		ActionEvaluateRemoval,
		ActionAvoidReplenishment,
		ActionNoAction,
	}
}

// CostAlerts lists every cost alert tier, most urgent first.
func CostAlerts() []CostAlert {
	return []CostAlert{AlertRed, AlertEvaluateTurnover, AlertNoUrgency, AlertNoCost}
}

// Priority returns the merge weight of the action, -1 when unknown.
func (a Action) Priority() int {
	if p, ok := actionPriority[a]; ok {
		return p
	}
	return -1
}

// Priority returns the merge weight of the alert, -1 when unknown.
func (c CostAlert) Priority() int {
	if p, ok := alertPriority[c]; ok {
		return p
	}
	return -1
}

// ParseAction resolves a label (case-insensitive) to its canonical action.
// The older "Avoid replenishment / promotion" wording maps to
// ActionAvoidReplenishment.
func ParseAction(label string) (Action, bool) {
	label = strings.TrimSpace(label)
	if strings.EqualFold(label, actionAvoidReplenishmentOld) {
		return ActionAvoidReplenishment, true
	}
	for a := range actionPriority {
		if strings.EqualFold(string(a), label) {
			return a, true
		}
	}
	return "", false
}

// ParseCostAlert resolves a label (case-insensitive) to its alert tier.
func ParseCostAlert(label string) (CostAlert, bool) {
	label = strings.TrimSpace(label)
	for c := range alertPriority {
		if strings.EqualFold(string(c), label) {
			return c, true
		}
	}
	return "", false
}
