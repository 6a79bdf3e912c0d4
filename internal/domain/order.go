package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the slice of a marketplace order the delivery core works with.
// The order itself is owned by the order-management side; this core reads it
// and only ever writes Status and PartnerID.
type Order struct {
	ID       uuid.UUID
	SellerID uuid.UUID
	Status   OrderStatus
	Total    Money

	// Delivery destination. Coordinates are optional; address fields drive
	// area-mode matching when they are absent.
	Destination *Point
	City        string
	State       string
	Country     string

	PartnerID *uuid.UUID
	CreatedAt time.Time
}

// MatchMode tells a caller how available orders were selected for a partner.
type MatchMode string

// Matching modes.
const (
	MatchByGeolocation MatchMode = "geolocation"
	MatchByArea        MatchMode = "area"
	MatchUnconfigured  MatchMode = "unconfigured"
)

// MatchedOrder is an order surfaced to a partner, with the computed distance
// when geolocation matching was used.
type MatchedOrder struct {
	Order      Order
	DistanceKm *float64
}

// MatchResult is the outcome of listing available orders for a partner.
type MatchResult struct {
	Orders       []MatchedOrder
	Mode         MatchMode
	TotalMatches int
}

// OrderStatusChange is one audit record of an order status move.
type OrderStatusChange struct {
	OrderID    uuid.UUID
	FromStatus OrderStatus
	ToStatus   OrderStatus
	ActorID    uuid.UUID
	CreatedAt  time.Time
}
