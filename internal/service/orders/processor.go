// Package orders reacts to order events from the order-management side.
// The delivery core only cares about orders disappearing: a cancelled or
// deleted order retires its active assignment.
package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"service-delivery/internal/apperr"
	"service-delivery/internal/logx"
)

// Processor processes order events.
type Processor struct {
	assignments AssignmentPort
	factory     *actionFactory
	logger      logx.Logger
}

// NewProcessor creates a new orders.Processor.
func NewProcessor(assignments AssignmentPort, logger logx.Logger) *Processor {
	p := &Processor{
		assignments: assignments,
		logger:      logger,
	}
	p.factory = newActionFactory(p.onCancelled)
	return p
}

// Handle processes a single order Event. Statuses with no registered action
// are acknowledged and skipped.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	orderID, err := uuid.Parse(e.OrderID)
	if err != nil {
		return fmt.Errorf("order event with bad order_id %q: %w", e.OrderID, apperr.Invalid)
	}

	// actor is optional in the event; uuid.Nil marks a system-initiated move
	actorID := uuid.Nil
	if e.ActorID != "" {
		if actorID, err = uuid.Parse(e.ActorID); err != nil {
			p.logger.Warn("order event with bad actor_id, proceeding without actor",
				logx.String("order_id", e.OrderID),
				logx.String("actor_id", e.ActorID),
			)
			actorID = uuid.Nil
		}
	}

	return p.assignments.CancelForOrder(ctx, orderID, actorID)
}
