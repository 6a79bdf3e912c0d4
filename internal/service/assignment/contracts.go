//go:generate mockgen -source=contracts.go -destination=assignment_mocks_test.go -package=assignment_test

package assignment

import (
	"context"

	"service-delivery/internal/domain"
	"service-delivery/internal/ports/assignmenttx"
)

// TxRunner runs a function against the delivery store inside one transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx assignmenttx.Repository) error) error
}

// Notifier pushes assignment lifecycle events to interested users.
type Notifier interface {
	AssignmentCreated(ctx context.Context, a domain.Assignment) error
	AssignmentStatusChanged(ctx context.Context, a domain.Assignment, from domain.AssignmentStatus) error
}
