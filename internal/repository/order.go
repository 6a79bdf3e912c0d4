package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/domain"
)

// OrderRepo reads orders for the delivery core. Orders are written by the
// order-management side; the only writes here happen inside assignment
// transactions (see TxRepo).
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var (
		o        domain.Order
		lat, lon *float64
	)
	err := row.Scan(
		&o.ID, &o.SellerID, &o.Status, &o.Total.Amount, &o.Total.Currency,
		&lat, &lon, &o.City, &o.State, &o.Country,
		&o.PartnerID, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		o.Destination = &domain.Point{Lat: *lat, Lon: *lon}
	}
	return &o, nil
}

// Get - returns an order by its ID, or nil when absent.
func (r *OrderRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, seller_id, status, total_amount, currency,
               delivery_lat, delivery_lon, city, state, country,
               delivery_partner_id, created_at
        FROM orders
        WHERE id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

// NearbyQuery describes a geolocation-mode matching query.
type NearbyQuery struct {
	PartnerID    uuid.UUID
	Location     domain.Point
	RadiusKm     float64
	OpenStatuses []string
	Limit        int
}

// FindNearbyOpenOrders surfaces unassigned open orders within the partner's
// service radius, closest first (ties broken by newest). Distance is the
// Haversine great-circle expression evaluated in SQL. Orders the partner
// already holds a pending request for are excluded.
func (r *OrderRepo) FindNearbyOpenOrders(ctx context.Context, q NearbyQuery) ([]domain.MatchedOrder, error) {
	rows, err := r.db.Query(ctx, `
        SELECT o.id, o.seller_id, o.status, o.total_amount, o.currency,
               o.delivery_lat, o.delivery_lon, o.city, o.state, o.country,
               o.delivery_partner_id, o.created_at,
               2 * 6371 * asin(sqrt(
                   power(sin(radians(o.delivery_lat - $1) / 2), 2) +
                   cos(radians($1)) * cos(radians(o.delivery_lat)) *
                   power(sin(radians(o.delivery_lon - $2) / 2), 2)
               )) AS distance_km
        FROM orders o
        WHERE o.delivery_lat IS NOT NULL
          AND o.delivery_lon IS NOT NULL
          AND o.status = ANY($3)
          AND NOT EXISTS (
              SELECT 1 FROM order_delivery_assignments a
              WHERE a.order_id = o.id
                AND a.status NOT IN ('delivered','rejected','failed','cancelled')
          )
          AND NOT EXISTS (
              SELECT 1 FROM delivery_requests dr
              WHERE dr.order_id = o.id
                AND dr.partner_id = $4
                AND dr.status = 'pending'
                AND dr.expires_at > now()
          )
          AND 2 * 6371 * asin(sqrt(
                  power(sin(radians(o.delivery_lat - $1) / 2), 2) +
                  cos(radians($1)) * cos(radians(o.delivery_lat)) *
                  power(sin(radians(o.delivery_lon - $2) / 2), 2)
              )) <= $5
        ORDER BY distance_km ASC, o.created_at DESC
        LIMIT $6
    `, q.Location.Lat, q.Location.Lon, q.OpenStatuses, q.PartnerID, q.RadiusKm, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("find nearby orders for partner %s: %w", q.PartnerID, err)
	}
	defer rows.Close()

	out := make([]domain.MatchedOrder, 0, q.Limit)
	for rows.Next() {
		var (
			o        domain.Order
			lat, lon *float64
			dist     float64
		)
		err := rows.Scan(
			&o.ID, &o.SellerID, &o.Status, &o.Total.Amount, &o.Total.Currency,
			&lat, &lon, &o.City, &o.State, &o.Country,
			&o.PartnerID, &o.CreatedAt, &dist,
		)
		if err != nil {
			return nil, err
		}
		if lat != nil && lon != nil {
			o.Destination = &domain.Point{Lat: *lat, Lon: *lon}
		}
		d := dist
		out = append(out, domain.MatchedOrder{Order: o, DistanceKm: &d})
	}
	return out, rows.Err()
}

// AreaQuery describes an area-mode matching query.
type AreaQuery struct {
	PartnerID    uuid.UUID
	Cities       []string
	OpenStatuses []string
	Limit        int
}

// FindOpenOrdersByCities surfaces unassigned open orders whose delivery city
// matches one of the partner's declared service cities (case-insensitive),
// newest first. No distance is computed in this mode.
func (r *OrderRepo) FindOpenOrdersByCities(ctx context.Context, q AreaQuery) ([]domain.MatchedOrder, error) {
	rows, err := r.db.Query(ctx, `
        SELECT o.id, o.seller_id, o.status, o.total_amount, o.currency,
               o.delivery_lat, o.delivery_lon, o.city, o.state, o.country,
               o.delivery_partner_id, o.created_at
        FROM orders o
        WHERE lower(o.city) = ANY(SELECT lower(unnest($1::text[])))
          AND o.status = ANY($2)
          AND NOT EXISTS (
              SELECT 1 FROM order_delivery_assignments a
              WHERE a.order_id = o.id
                AND a.status NOT IN ('delivered','rejected','failed','cancelled')
          )
          AND NOT EXISTS (
              SELECT 1 FROM delivery_requests dr
              WHERE dr.order_id = o.id
                AND dr.partner_id = $3
                AND dr.status = 'pending'
                AND dr.expires_at > now()
          )
        ORDER BY o.created_at DESC
        LIMIT $4
    `, q.Cities, q.OpenStatuses, q.PartnerID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("find orders by cities for partner %s: %w", q.PartnerID, err)
	}
	defer rows.Close()

	out := make([]domain.MatchedOrder, 0, q.Limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.MatchedOrder{Order: *o})
	}
	return out, rows.Err()
}
