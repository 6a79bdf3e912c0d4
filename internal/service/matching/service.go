// Package matching surfaces unassigned orders to delivery partners, either by
// geolocation within the partner's service radius or by declared city areas.
package matching

import (
	"context"
	"time"

	"github.com/google/uuid"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	"service-delivery/internal/repository"
)

// Config carries the tunables of the matcher.
type Config struct {
	OpenOrderStatuses []string
	MaxMatches        int
}

// Service lists available orders for a partner.
type Service struct {
	orders           orderFinder
	partners         partnerGetter
	cfg              Config
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates and configures a matching Service.
func NewService(orders orderFinder, partners partnerGetter, cfg Config, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if cfg.MaxMatches <= 0 {
		cfg.MaxMatches = 50
	}
	if len(cfg.OpenOrderStatuses) == 0 {
		cfg.OpenOrderStatuses = []string{
			string(domain.OrderPending),
			string(domain.OrderConfirmed),
			string(domain.OrderProcessing),
		}
	}
	return &Service{
		orders:           orders,
		partners:         partners,
		cfg:              cfg,
		operationTimeout: timeout,
		logger:           logger,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// ListAvailable returns orders a partner could deliver right now, with the
// mode used and the match count so the caller can tell "no orders" apart
// from "no service area configured".
func (s *Service) ListAvailable(ctx context.Context, partnerID uuid.UUID) (domain.MatchResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	partner, err := s.partners.Get(ctx, partnerID)
	if err != nil {
		return domain.MatchResult{}, err
	}
	if partner == nil {
		return domain.MatchResult{}, apperr.NotFound
	}
	if !partner.IsVerified || !partner.IsActive {
		return domain.MatchResult{}, apperr.Forbidden
	}

	var (
		matched []domain.MatchedOrder
		mode    domain.MatchMode
	)

	switch {
	case partner.Location != nil:
		mode = domain.MatchByGeolocation
		matched, err = s.orders.FindNearbyOpenOrders(ctx, repository.NearbyQuery{
			PartnerID:    partner.ID,
			Location:     *partner.Location,
			RadiusKm:     partner.ServiceRadiusKm,
			OpenStatuses: s.cfg.OpenOrderStatuses,
			Limit:        s.cfg.MaxMatches,
		})
	case len(partner.ServiceCities) > 0:
		mode = domain.MatchByArea
		matched, err = s.orders.FindOpenOrdersByCities(ctx, repository.AreaQuery{
			PartnerID:    partner.ID,
			Cities:       partner.ServiceCities,
			OpenStatuses: s.cfg.OpenOrderStatuses,
			Limit:        s.cfg.MaxMatches,
		})
	default:
		// neither a geolocation nor declared areas: nothing can ever match
		return domain.MatchResult{Mode: domain.MatchUnconfigured, Orders: []domain.MatchedOrder{}}, nil
	}
	if err != nil {
		return domain.MatchResult{}, err
	}

	s.logger.Debug("orders matched",
		logx.String("partner_id", partner.ID.String()),
		logx.String("mode", string(mode)),
		logx.Int("matches", len(matched)),
	)

	return domain.MatchResult{
		Orders:       matched,
		Mode:         mode,
		TotalMatches: len(matched),
	}, nil
}
