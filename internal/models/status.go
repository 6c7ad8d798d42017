package models

// statusSuccessors is the order status transition table:
//
//	pending    → processing, cancelled
//	processing → shipped, cancelled
//	shipped    → delivered
//	delivered, cancelled → (terminal)
var statusSuccessors = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether from → to is a legal status change. A no-op
// save (from == to) is always allowed so a form can be re-submitted without
// the user picking a new value.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}

	for _, next := range statusSuccessors[from] {
		if next == to {
			return true
		}
	}

	return false
}

// NextStatuses returns the legal successors of a status, current status
// first, for populating a status picker.
func NextStatuses(from OrderStatus) []OrderStatus {
	return append([]OrderStatus{from}, statusSuccessors[from]...)
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(s OrderStatus) bool {
	return len(statusSuccessors[s]) == 0
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	_, ok := statusSuccessors[s]

	return ok
}
