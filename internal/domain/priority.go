package domain

// MaxAction folds an incoming action into the current one. The incoming
// label wins only when its priority is strictly higher, so folding a set of
// labels yields the same result in any order.
func MaxAction(current, incoming Action) Action {
	if incoming.Priority() > current.Priority() {
		return incoming
	}
	return current
}

// MaxCostAlert is the cost alert counterpart of MaxAction.
func MaxCostAlert(current, incoming CostAlert) CostAlert {
	if incoming.Priority() > current.Priority() {
		return incoming
	}
	return current
}
