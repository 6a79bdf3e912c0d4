package partner

import (
	"context"

	"github.com/google/uuid"

	"service-delivery/internal/domain"
)

// partnerRepository defines storage operations required by the business layer.
type partnerRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryPartner, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.DeliveryPartner, error)
	List(ctx context.Context, limit, offset *int) ([]domain.DeliveryPartner, error)
	Create(ctx context.Context, p *domain.DeliveryPartner) (uuid.UUID, error)
	UpdatePartial(ctx context.Context, u domain.PartialPartnerUpdate) (bool, error)
}
