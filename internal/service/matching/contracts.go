package matching

import (
	"context"

	"github.com/google/uuid"

	"service-delivery/internal/domain"
	"service-delivery/internal/repository"
)

type orderFinder interface {
	FindNearbyOpenOrders(ctx context.Context, q repository.NearbyQuery) ([]domain.MatchedOrder, error)
	FindOpenOrdersByCities(ctx context.Context, q repository.AreaQuery) ([]domain.MatchedOrder, error)
}

type partnerGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryPartner, error)
}
