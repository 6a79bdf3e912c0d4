package stats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"service-delivery/internal/domain"
)

type feeAggregator interface {
	AggregateDeliveredFees(ctx context.Context, partnerID uuid.UUID, from *time.Time) (domain.FeeAggregate, error)
}

type partnerGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryPartner, error)
}

// Cache is a best-effort byte cache; failures degrade to a recompute.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
