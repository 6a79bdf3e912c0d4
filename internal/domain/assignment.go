package domain

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is the authoritative record binding one partner to one order.
// It is created once, advanced only through the state machine, and never
// deleted: terminal rows are the audit history.
type Assignment struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	PartnerID uuid.UUID
	Status    AssignmentStatus
	Fee       Money

	DistanceKm      *float64
	PickupAddress   string
	DeliveryAddress string
	Instructions    string

	AcceptedAt  *time.Time
	PickedUpAt  *time.Time
	InTransitAt *time.Time
	DeliveredAt *time.Time

	Notes    *string
	ProofRef *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AssignmentStatusUpdate carries one state-machine step to persist: the new
// status, the moment it happened (stored in the status's timestamp column)
// and optional free-text fields.
type AssignmentStatusUpdate struct {
	ID       uuid.UUID
	Status   AssignmentStatus
	At       time.Time
	Notes    *string
	ProofRef *string
}

// DeliveryRequest is a partner's unbound proposal to deliver an order.
// Expiry is a wall-clock deadline checked at read time; nothing here sweeps
// requests proactively.
type DeliveryRequest struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	PartnerID   uuid.UUID
	ProposedFee Money
	Status      RequestStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Actionable reports whether the request can still convert into an assignment.
func (r *DeliveryRequest) Actionable(now time.Time) bool {
	return r != nil && r.Status == RequestPending && now.Before(r.ExpiresAt)
}
