package storage

const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusProcessing     = "processing"
	StatusReadyForPickup = "ready_for_pickup"
	StatusPickedUp       = "picked_up"
	StatusInTransit      = "in_transit"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

const (
	DeliveryAssigned  = "assigned"
	DeliveryPickedUp  = "picked_up"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
	DeliveryCancelled = "cancelled"
)

const (
	PartnerPending  = "pending"
	PartnerApproved = "approved"
	PartnerRejected = "rejected"
)

var orderTransitions = map[string][]string{
	StatusPending:        {StatusConfirmed, StatusProcessing, StatusReadyForPickup, StatusCancelled},
	StatusConfirmed:      {StatusProcessing, StatusReadyForPickup, StatusCancelled},
	StatusProcessing:     {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup: {StatusPickedUp, StatusCancelled},
	StatusPickedUp:       {StatusInTransit, StatusCancelled},
	StatusInTransit:      {StatusDelivered, StatusCancelled},
	StatusDelivered:      nil,
	StatusCancelled:      nil,
}

func IsKnownStatus(status string) bool {
	_, ok := orderTransitions[status]
	return ok
}

func IsTerminal(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}

// CanTransition reports whether the order lifecycle allows from -> to.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// isPartnerDriven is true for the statuses set by the courier on the road.
func isPartnerDriven(status string) bool {
	return status == StatusPickedUp || status == StatusInTransit || status == StatusDelivered
}

func isStoreDriven(status string) bool {
	switch status {
	case StatusConfirmed, StatusProcessing, StatusReadyForPickup, StatusCancelled:
		return true
	}
	return false
}

// deliveryStatusFor maps an order status onto the delivery it drives.
func deliveryStatusFor(orderStatus string) (string, bool) {
	switch orderStatus {
	case StatusPickedUp:
		return DeliveryPickedUp, true
	case StatusInTransit:
		return DeliveryInTransit, true
	case StatusDelivered:
		return DeliveryDelivered, true
	case StatusCancelled:
		return DeliveryCancelled, true
	}
	return "", false
}

func IsActiveDelivery(status string) bool {
	return status != DeliveryDelivered && status != DeliveryCancelled
}
