// Package partner coordinates delivery partner profile logic and
// orchestrates repository calls.
package partner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
)

// Service manages delivery partner profiles.
type Service struct {
	repo             partnerRepository
	operationTimeout time.Duration
}

// NewService creates and configures a partner Service.
func NewService(r partnerRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateCreate(p *domain.DeliveryPartner) error {
	if p == nil {
		return apperr.Invalid
	}
	if p.UserID == uuid.Nil {
		return apperr.Invalid
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Invalid
	}
	if !domain.ValidatePhone(p.Phone) {
		return apperr.Invalid
	}
	if p.Location != nil && !domain.ValidCoordinates(p.Location.Lat, p.Location.Lon) {
		return apperr.Invalid
	}
	if p.ServiceRadiusKm < 0 {
		return apperr.Invalid
	}
	if p.Pricing.Kind == "" {
		p.Pricing.Kind = domain.PricingFlat
	}
	if !p.Pricing.Kind.Valid() {
		return apperr.Invalid
	}
	if p.Pricing.BaseFee.Amount < 0 || p.Pricing.PerKmRate.Amount < 0 || p.Pricing.PercentBP < 0 {
		return apperr.Invalid
	}
	if p.MaxDailyCapacity <= 0 {
		return apperr.Invalid
	}
	return nil
}

func validateUpdate(u *domain.PartialPartnerUpdate) error {
	if u.ID == uuid.Nil {
		return apperr.Invalid
	}
	if u.Name == nil && u.Phone == nil && u.IsActive == nil && u.Location == nil &&
		u.ServiceRadiusKm == nil && u.ServiceCities == nil && u.Pricing == nil &&
		u.MaxDailyCapacity == nil {
		return apperr.Invalid
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return apperr.Invalid
	}
	if u.Phone != nil && !domain.ValidatePhone(*u.Phone) {
		return apperr.Invalid
	}
	if u.Location != nil && !domain.ValidCoordinates(u.Location.Lat, u.Location.Lon) {
		return apperr.Invalid
	}
	if u.ServiceRadiusKm != nil && *u.ServiceRadiusKm < 0 {
		return apperr.Invalid
	}
	if u.Pricing != nil {
		if !u.Pricing.Kind.Valid() {
			return apperr.Invalid
		}
		if u.Pricing.BaseFee.Amount < 0 || u.Pricing.PerKmRate.Amount < 0 || u.Pricing.PercentBP < 0 {
			return apperr.Invalid
		}
	}
	if u.MaxDailyCapacity != nil && *u.MaxDailyCapacity <= 0 {
		return apperr.Invalid
	}
	return nil
}

// Get retrieves a partner by its ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryPartner, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound
	}
	return p, nil
}

// GetByUserID retrieves the partner profile owned by a platform user.
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.DeliveryPartner, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound
	}
	return p, nil
}

// List returns partners with optional pagination.
func (s *Service) List(ctx context.Context, limit, offset *int) ([]domain.DeliveryPartner, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, limit, offset)
}

// Create persists a new partner profile and returns its generated ID.
// Profiles start unverified; verification is an out-of-band moderation step.
func (s *Service) Create(ctx context.Context, p *domain.DeliveryPartner) (uuid.UUID, error) {
	if err := validateCreate(p); err != nil {
		return uuid.Nil, err
	}
	p.IsVerified = false
	p.IsActive = true
	p.CurrentActiveOrders = 0

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, p)
}

// UpdatePartial applies a partial update. Only the profile's owner may
// change it.
func (s *Service) UpdatePartial(ctx context.Context, actorID uuid.UUID, u domain.PartialPartnerUpdate) error {
	if err := validateUpdate(&u); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.repo.Get(ctx, u.ID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound
	}
	if p.UserID != actorID {
		return apperr.Forbidden
	}

	ok, err := s.repo.UpdatePartial(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound
	}
	return nil
}
