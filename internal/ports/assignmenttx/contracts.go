// Package assignmenttx declares the repository operations available inside a
// single assignment transaction. Every state-machine mutation runs against
// this interface so that atomicity comes from the transaction scope, not from
// caller discipline.
package assignmenttx

import (
	"context"

	"github.com/google/uuid"

	"service-delivery/internal/domain"
)

// Repository is the in-transaction surface of the delivery store.
type Repository interface {
	// GetAssignmentForUpdate reads an assignment with a row lock, or nil.
	GetAssignmentForUpdate(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	// GetActiveAssignmentByOrder reads the order's non-terminal assignment
	// with a row lock, or nil when the order is unassigned.
	GetActiveAssignmentByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Assignment, error)
	// InsertAssignment stores a new assignment and fills in its ID.
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
	// UpdateAssignmentStatus applies one state-machine step.
	UpdateAssignmentStatus(ctx context.Context, u domain.AssignmentStatusUpdate) error

	// GetOrderForUpdate reads an order with a row lock, or nil.
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// SetOrderPartner binds a partner to the order.
	SetOrderPartner(ctx context.Context, orderID, partnerID uuid.UUID) error
	// UpdateOrderStatus moves the order to a new status.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
	// InsertOrderStatusChange appends an order-status audit record.
	InsertOrderStatusChange(ctx context.Context, ch domain.OrderStatusChange) error

	// GetPartnerForUpdate reads a partner with a row lock, or nil.
	GetPartnerForUpdate(ctx context.Context, id uuid.UUID) (*domain.DeliveryPartner, error)
	// AcquirePartnerCapacity atomically increments current_active_orders if
	// the partner is verified, active and under max capacity. False means the
	// gate rejected the increment.
	AcquirePartnerCapacity(ctx context.Context, id uuid.UUID) (bool, error)
	// ReleasePartnerCapacity decrements current_active_orders floored at
	// zero; delivered additionally bumps the lifetime counters.
	ReleasePartnerCapacity(ctx context.Context, id uuid.UUID, delivered bool) error

	// GetRequestForUpdate reads a delivery request with a row lock, or nil.
	GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*domain.DeliveryRequest, error)
	// FindActiveRequest finds a pending or accepted request for the
	// (order, partner) pair, or nil.
	FindActiveRequest(ctx context.Context, orderID, partnerID uuid.UUID) (*domain.DeliveryRequest, error)
	// InsertRequest stores a new delivery request and fills in its ID.
	InsertRequest(ctx context.Context, r *domain.DeliveryRequest) error
	// UpdateRequestStatus moves a request to a new status.
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error
	// RejectOtherPendingRequests rejects every other pending request for the
	// order once one of them converts into an assignment.
	RejectOtherPendingRequests(ctx context.Context, orderID, acceptedID uuid.UUID) error
}
