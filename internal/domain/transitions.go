package domain

// transitions holds, per service type, the allowed outgoing edges of each
// order status. CANCELLED appears explicitly on every non-terminal status.
var transitions = map[ServiceType]map[OrderStatus][]OrderStatus{
	ServiceFood: {
		OrderStatusPending:        {OrderStatusPreparing, OrderStatusCancelled},
		OrderStatusPreparing:      {OrderStatusReady, OrderStatusCancelled},
		OrderStatusReady:          {OrderStatusOutForDelivery, OrderStatusCancelled},
		OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	},
	ServiceParcel: {
		OrderStatusReady:          {OrderStatusOutForDelivery, OrderStatusCancelled},
		OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	},
	ServiceRide: {
		OrderStatusPending:   {OrderStatusInTransit, OrderStatusCancelled},
		OrderStatusInTransit: {OrderStatusCompleted, OrderStatusCancelled},
	},
}

// InitialStatus returns the status a freshly placed order starts in.
// Merchant-direct parcels are created pre-accepted, directly in READY.
func InitialStatus(service ServiceType) OrderStatus {
	if service == ServiceParcel {
		return OrderStatusReady
	}
	return OrderStatusPending
}

// TerminalSuccessStatus returns the terminal status that triggers settlement.
func TerminalSuccessStatus(service ServiceType) OrderStatus {
	if service == ServiceRide {
		return OrderStatusCompleted
	}
	return OrderStatusDelivered
}

// BiddableStatus returns the status in which an order is open for driver acceptance.
func BiddableStatus(service ServiceType) OrderStatus {
	if service == ServiceRide {
		return OrderStatusPending
	}
	return OrderStatusReady
}

// AcceptAdvance returns the status an order auto-advances to when a driver
// accepts it, and whether such an advance applies. Only rides move on accept;
// food and parcel orders stay put until the driver collects them.
func AcceptAdvance(service ServiceType) (OrderStatus, bool) {
	if service == ServiceRide {
		return OrderStatusInTransit, true
	}
	return "", false
}

// IsTerminal reports whether a status has no outgoing edges.
func IsTerminal(status OrderStatus) bool {
	switch status {
	case OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order of the given service type may move
// from one status to another. Statuses only move forward along the graph;
// illegal jumps and transitions out of terminal states are rejected.
func CanTransition(service ServiceType, from, to OrderStatus) bool {
	graph, ok := transitions[service]
	if !ok {
		return false
	}
	for _, next := range graph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the valid successor statuses for the given state.
func AllowedTransitions(service ServiceType, from OrderStatus) []OrderStatus {
	graph, ok := transitions[service]
	if !ok {
		return nil
	}
	return graph[from]
}

// Collected reports whether the driver already carries the goods (or the
// passenger) for an order in the given status. Collected orders contribute
// dropoff stops to route planning; assigned but uncollected orders contribute
// pickup stops.
func Collected(status OrderStatus) bool {
	return status == OrderStatusOutForDelivery || status == OrderStatusInTransit
}
