package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
)

// PartnerRepo represents the delivery-partner repository.
type PartnerRepo struct{ db *pgxpool.Pool }

// NewPartnerRepo creates a new PartnerRepo.
func NewPartnerRepo(db *pgxpool.Pool) *PartnerRepo { return &PartnerRepo{db: db} }

const partnerColumns = `
    id, user_id, name, phone, is_verified, is_active,
    lat, lon, service_radius_km, service_cities,
    pricing_kind, base_fee, per_km_rate, percent_bp, currency,
    current_active_orders, max_daily_capacity, total_deliveries, successful_deliveries`

func scanPartner(row interface{ Scan(...any) error }) (*domain.DeliveryPartner, error) {
	var (
		p        domain.DeliveryPartner
		lat, lon *float64
		currency string
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Phone, &p.IsVerified, &p.IsActive,
		&lat, &lon, &p.ServiceRadiusKm, &p.ServiceCities,
		&p.Pricing.Kind, &p.Pricing.BaseFee.Amount, &p.Pricing.PerKmRate.Amount, &p.Pricing.PercentBP, &currency,
		&p.CurrentActiveOrders, &p.MaxDailyCapacity, &p.TotalDeliveries, &p.SuccessfulDeliveries,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		p.Location = &domain.Point{Lat: *lat, Lon: *lon}
	}
	p.Pricing.BaseFee.Currency = currency
	p.Pricing.PerKmRate.Currency = currency
	return &p, nil
}

// Get - returns partner by its ID, or nil when absent.
func (r *PartnerRepo) Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryPartner, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+partnerColumns+` FROM delivery_partners WHERE id=$1`, id)
	p, err := scanPartner(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner %s: %w", id, err)
	}
	return p, nil
}

// GetByUserID - returns the partner profile owned by the given user, or nil.
func (r *PartnerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.DeliveryPartner, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+partnerColumns+` FROM delivery_partners WHERE user_id=$1`, userID)
	p, err := scanPartner(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner by user %s: %w", userID, err)
	}
	return p, nil
}

// List returns partners ordered by name. If limit/offset are nil, returns the full list.
func (r *PartnerRepo) List(ctx context.Context, limit, offset *int) ([]domain.DeliveryPartner, error) {
	q := `SELECT` + partnerColumns + ` FROM delivery_partners ORDER BY name, id`
	args := make([]any, 0, 2)
	if limit != nil {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, *limit)
	}
	if offset != nil {
		q += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, *offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	capacity := 0
	if limit != nil && *limit > 0 {
		capacity = *limit
	}
	out := make([]domain.DeliveryPartner, 0, capacity)
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Create - creates a new partner profile.
func (r *PartnerRepo) Create(ctx context.Context, p *domain.DeliveryPartner) (uuid.UUID, error) {
	var lat, lon *float64
	if p.Location != nil {
		lat, lon = &p.Location.Lat, &p.Location.Lon
	}

	id := uuid.New()
	_, err := r.db.Exec(ctx, `
        INSERT INTO delivery_partners (
            id, user_id, name, phone, is_verified, is_active,
            lat, lon, service_radius_km, service_cities,
            pricing_kind, base_fee, per_km_rate, percent_bp, currency,
            current_active_orders, max_daily_capacity, total_deliveries, successful_deliveries
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,0,$16,0,0)
    `, id, p.UserID, p.Name, p.Phone, p.IsVerified, p.IsActive,
		lat, lon, p.ServiceRadiusKm, p.ServiceCities,
		p.Pricing.Kind, p.Pricing.BaseFee.Amount, p.Pricing.PerKmRate.Amount, p.Pricing.PercentBP, p.Pricing.BaseFee.Currency,
		p.MaxDailyCapacity)
	if err != nil {
		if IsDuplicate(err) {
			return uuid.Nil, apperr.Conflict
		}
		return uuid.Nil, fmt.Errorf("create partner: %w", err)
	}
	p.ID = id
	return id, nil
}

// UpdatePartial applies a partial update to a partner and returns true if a row was affected.
func (r *PartnerRepo) UpdatePartial(ctx context.Context, u domain.PartialPartnerUpdate) (bool, error) {
	var lat, lon *float64
	if u.Location != nil {
		lat, lon = &u.Location.Lat, &u.Location.Lon
	}

	var kind *domain.PricingKind
	var baseFee, perKm, percentBP *int64
	if u.Pricing != nil {
		kind = &u.Pricing.Kind
		baseFee = &u.Pricing.BaseFee.Amount
		perKm = &u.Pricing.PerKmRate.Amount
		percentBP = &u.Pricing.PercentBP
	}

	var cities *[]string
	if u.ServiceCities != nil {
		cities = u.ServiceCities
	}

	ct, err := r.db.Exec(ctx, `
        UPDATE delivery_partners
        SET
            name               = COALESCE($2, name),
            phone              = COALESCE($3, phone),
            is_active          = COALESCE($4, is_active),
            lat                = COALESCE($5, lat),
            lon                = COALESCE($6, lon),
            service_radius_km  = COALESCE($7, service_radius_km),
            service_cities     = COALESCE($8, service_cities),
            pricing_kind       = COALESCE($9, pricing_kind),
            base_fee           = COALESCE($10, base_fee),
            per_km_rate        = COALESCE($11, per_km_rate),
            percent_bp         = COALESCE($12, percent_bp),
            max_daily_capacity = COALESCE($13, max_daily_capacity),
            updated_at         = now()
        WHERE id = $1
    `, u.ID, u.Name, u.Phone, u.IsActive, lat, lon, u.ServiceRadiusKm, cities,
		kind, baseFee, perKm, percentBP, u.MaxDailyCapacity)
	if err != nil {
		if IsDuplicate(err) {
			return false, apperr.Conflict
		}
		return false, fmt.Errorf("update partner %s: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}
