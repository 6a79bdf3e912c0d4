package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/domain"
)

// RequestRepo represents the delivery-request repository.
type RequestRepo struct{ db *pgxpool.Pool }

// NewRequestRepo creates a new RequestRepo.
func NewRequestRepo(db *pgxpool.Pool) *RequestRepo { return &RequestRepo{db: db} }

// Get - returns a delivery request by its ID, or nil when absent.
func (r *RequestRepo) Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryRequest, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+requestColumns+` FROM delivery_requests WHERE id=$1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request %s: %w", id, err)
	}
	return req, nil
}

// ListByPartner returns a partner's requests, newest first.
func (r *RequestRepo) ListByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]domain.DeliveryRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+requestColumns+`
         FROM delivery_requests
         WHERE partner_id = $1
         ORDER BY created_at DESC
         LIMIT $2`, partnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list requests for partner %s: %w", partnerID, err)
	}
	defer rows.Close()

	out := make([]domain.DeliveryRequest, 0, limit)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

// ExpirePending - mark pending requests past their deadline as expired.
func (r *RequestRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE delivery_requests
        SET status = $1, updated_at = now()
        WHERE status = $2
          AND expires_at < $3
    `, string(domain.RequestExpired), string(domain.RequestPending), now)
	if err != nil {
		return 0, fmt.Errorf("expire pending requests: %w", err)
	}
	return ct.RowsAffected(), nil
}
