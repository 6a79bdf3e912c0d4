package domain

import "service-delivery/internal/apperr"

type (
	// AssignmentStatus represents the lifecycle state of a delivery assignment.
	AssignmentStatus string
	// OrderStatus represents the status of a marketplace order.
	OrderStatus string
	// RequestStatus represents the status of a partner's delivery request.
	RequestStatus string
)

// Assignment lifecycle states.
const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentRejected  AssignmentStatus = "rejected"
	AssignmentPickedUp  AssignmentStatus = "picked_up"
	AssignmentInTransit AssignmentStatus = "in_transit"
	AssignmentDelivered AssignmentStatus = "delivered"
	AssignmentFailed    AssignmentStatus = "failed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Order statuses. The delivery core only ever writes shipping, delivered and
// cancelled; the rest belong to the order-management side.
const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipping   OrderStatus = "shipping"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Delivery request statuses.
const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
	RequestExpired   RequestStatus = "expired"
)

// Valid checks if the AssignmentStatus is a known state.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentPending, AssignmentAccepted, AssignmentRejected,
		AssignmentPickedUp, AssignmentInTransit,
		AssignmentDelivered, AssignmentFailed, AssignmentCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the state has no outgoing transitions.
func (s AssignmentStatus) Terminal() bool {
	switch s {
	case AssignmentDelivered, AssignmentRejected, AssignmentFailed, AssignmentCancelled:
		return true
	default:
		return false
	}
}

// AllowedTargets returns the legal transition targets from s. The switch
// covers the closed set of states; a new state without an entry here simply
// has no outgoing transitions.
func (s AssignmentStatus) AllowedTargets() []AssignmentStatus {
	switch s {
	case AssignmentPending:
		return []AssignmentStatus{AssignmentAccepted, AssignmentRejected}
	case AssignmentAccepted:
		return []AssignmentStatus{AssignmentPickedUp, AssignmentCancelled}
	case AssignmentPickedUp:
		return []AssignmentStatus{AssignmentInTransit, AssignmentCancelled}
	case AssignmentInTransit:
		return []AssignmentStatus{AssignmentDelivered, AssignmentFailed}
	default:
		return nil
	}
}

// CanTransitionTo reports whether s -> to is in the transition table.
func (s AssignmentStatus) CanTransitionTo(to AssignmentStatus) bool {
	for _, t := range s.AllowedTargets() {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionErr builds the typed error for an illegal s -> to attempt.
func (s AssignmentStatus) TransitionErr(to AssignmentStatus) error {
	targets := s.AllowedTargets()
	allowed := make([]string, 0, len(targets))
	for _, t := range targets {
		allowed = append(allowed, string(t))
	}
	return &apperr.TransitionError{From: string(s), To: string(to), Allowed: allowed}
}

// OrderStatusFor maps an assignment state to the order status it propagates,
// returning false for states that leave the order untouched.
func OrderStatusFor(s AssignmentStatus) (OrderStatus, bool) {
	switch s {
	case AssignmentPickedUp, AssignmentInTransit:
		return OrderShipping, true
	case AssignmentDelivered:
		return OrderDelivered, true
	case AssignmentFailed, AssignmentCancelled:
		return OrderCancelled, true
	default:
		return "", false
	}
}

// Valid checks if the RequestStatus is a known state.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected, RequestCancelled, RequestExpired:
		return true
	default:
		return false
	}
}
