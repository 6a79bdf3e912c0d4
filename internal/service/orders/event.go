package orders

import (
	"time"
)

// Event is a single order event from the order-management side.
type Event struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	ActorID   string    `json:"actor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
