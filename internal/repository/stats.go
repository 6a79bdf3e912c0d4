package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/domain"
)

// StatsRepo aggregates historical assignments for partner dashboards.
// Read-only; safe to run concurrently with the state machine.
type StatsRepo struct{ db *pgxpool.Pool }

// NewStatsRepo creates a new StatsRepo.
func NewStatsRepo(db *pgxpool.Pool) *StatsRepo { return &StatsRepo{db: db} }

// AggregateDeliveredFees sums fees over delivered assignments for a partner.
// A nil from means the whole history.
func (r *StatsRepo) AggregateDeliveredFees(ctx context.Context, partnerID uuid.UUID, from *time.Time) (domain.FeeAggregate, error) {
	q := `
        SELECT COUNT(*),
               COALESCE(SUM(fee), 0),
               COALESCE(AVG(fee), 0)::bigint,
               COALESCE(MIN(fee), 0),
               COALESCE(MAX(fee), 0),
               COALESCE(MAX(currency), '')
        FROM order_delivery_assignments
        WHERE partner_id = $1
          AND status = 'delivered'`
	args := []any{partnerID}
	if from != nil {
		q += ` AND delivered_at >= $2`
		args = append(args, *from)
	}

	var agg domain.FeeAggregate
	err := r.db.QueryRow(ctx, q, args...).Scan(
		&agg.Count, &agg.SumMinor, &agg.AvgMinor, &agg.MinMinor, &agg.MaxMinor, &agg.Currency,
	)
	if err != nil {
		return domain.FeeAggregate{}, fmt.Errorf("aggregate fees for partner %s: %w", partnerID, err)
	}
	return agg, nil
}
