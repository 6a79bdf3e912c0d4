// Package stats derives partner dashboard figures from historical
// assignments. Read-only; safe to call concurrently with the state machine.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

// Service computes partner statistics with an optional read-through cache.
type Service struct {
	aggregates       feeAggregator
	partners         partnerGetter
	cache            Cache
	cacheTTL         time.Duration
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a stats Service. A nil cache disables caching.
func NewService(aggregates feeAggregator, partners partnerGetter, cache Cache, cacheTTL, timeout time.Duration, logger logx.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		aggregates:       aggregates,
		partners:         partners,
		cache:            cache,
		cacheTTL:         cacheTTL,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// PartnerStatistics aggregates a partner's delivered assignments over the
// period and combines them with the lifetime counters.
func (s *Service) PartnerStatistics(ctx context.Context, partnerID uuid.UUID, period domain.StatsPeriod) (domain.PartnerStatistics, error) {
	if period == "" {
		period = domain.PeriodAll
	}
	if !period.Valid() {
		return domain.PartnerStatistics{}, fmt.Errorf("unknown period %q: %w", period, apperr.Invalid)
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	key := cacheKey(partnerID, period)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	partner, err := s.partners.Get(ctx, partnerID)
	if err != nil {
		return domain.PartnerStatistics{}, err
	}
	if partner == nil {
		return domain.PartnerStatistics{}, apperr.NotFound
	}

	agg, err := s.aggregates.AggregateDeliveredFees(ctx, partnerID, s.periodStart(period))
	if err != nil {
		return domain.PartnerStatistics{}, err
	}

	out := domain.PartnerStatistics{
		TotalDeliveries:      partner.TotalDeliveries,
		SuccessfulDeliveries: partner.SuccessfulDeliveries,
		Period:               string(period),
		PeriodDeliveries:     agg.Count,
		TotalEarningsMinor:   agg.SumMinor,
		AverageFeeMinor:      agg.AvgMinor,
		MinFeeMinor:          agg.MinMinor,
		MaxFeeMinor:          agg.MaxMinor,
		Currency:             agg.Currency,
	}
	if partner.TotalDeliveries > 0 {
		out.SuccessRate = float64(partner.SuccessfulDeliveries) / float64(partner.TotalDeliveries)
	}

	s.toCache(ctx, key, out)
	return out, nil
}

// periodStart maps a period to its window start, nil for the whole history.
// today is the current UTC calendar day, week and month are rolling windows.
func (s *Service) periodStart(period domain.StatsPeriod) *time.Time {
	now := s.now()
	var from time.Time
	switch period {
	case domain.PeriodToday:
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case domain.PeriodWeek:
		from = now.AddDate(0, 0, -7)
	case domain.PeriodMonth:
		from = now.AddDate(0, -1, 0)
	default:
		return nil
	}
	return &from
}

func cacheKey(partnerID uuid.UUID, period domain.StatsPeriod) string {
	return fmt.Sprintf("stats:%s:%s", partnerID, period)
}

func (s *Service) fromCache(ctx context.Context, key string) (domain.PartnerStatistics, bool) {
	if s.cache == nil {
		return domain.PartnerStatistics{}, false
	}
	b, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("stats cache read failed", logx.String("key", key), logx.Err(err))
		return domain.PartnerStatistics{}, false
	}
	if b == nil {
		return domain.PartnerStatistics{}, false
	}
	var out domain.PartnerStatistics
	if err := json.Unmarshal(b, &out); err != nil {
		s.logger.Warn("stats cache entry corrupt", logx.String("key", key), logx.Err(err))
		return domain.PartnerStatistics{}, false
	}
	return out, true
}

func (s *Service) toCache(ctx context.Context, key string, v domain.PartnerStatistics) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
		s.logger.Warn("stats cache write failed", logx.String("key", key), logx.Err(err))
	}
}
