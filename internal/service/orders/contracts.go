//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"github.com/google/uuid"
)

// AssignmentPort abstracts the subset of assignment service operations
// needed by the orders Processor when handling order events.
type AssignmentPort interface {
	CancelForOrder(ctx context.Context, orderID, actorID uuid.UUID) error
}
