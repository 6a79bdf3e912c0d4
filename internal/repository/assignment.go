package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/ports/assignmenttx"
)

// AssignmentRepo represents the assignment repository.
type AssignmentRepo struct {
	db *pgxpool.Pool
}

// NewAssignmentRepo creates a new AssignmentRepo.
func NewAssignmentRepo(db *pgxpool.Pool) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// WithTx opens a transaction and executes fn within it. Any error from fn
// rolls the whole transaction back; a panic rolls back and re-panics.
func (r *AssignmentRepo) WithTx(ctx context.Context, fn func(tx assignmenttx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

const assignmentColumns = `
    id, order_id, partner_id, status, fee, currency, distance_km,
    pickup_address, delivery_address, instructions,
    accepted_at, picked_up_at, in_transit_at, delivered_at,
    notes, proof_ref, created_at, updated_at`

func scanAssignment(row interface{ Scan(...any) error }) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(
		&a.ID, &a.OrderID, &a.PartnerID, &a.Status, &a.Fee.Amount, &a.Fee.Currency, &a.DistanceKm,
		&a.PickupAddress, &a.DeliveryAddress, &a.Instructions,
		&a.AcceptedAt, &a.PickedUpAt, &a.InTransitAt, &a.DeliveredAt,
		&a.Notes, &a.ProofRef, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get - returns an assignment by its ID outside a transaction, or nil.
func (r *AssignmentRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+assignmentColumns+` FROM order_delivery_assignments WHERE id=$1`, id)
	a, err := scanAssignment(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment %s: %w", id, err)
	}
	return a, nil
}

// ListByPartner returns a partner's assignments, most recent first.
func (r *AssignmentRepo) ListByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+assignmentColumns+`
         FROM order_delivery_assignments
         WHERE partner_id = $1
         ORDER BY created_at DESC
         LIMIT $2`, partnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list assignments for partner %s: %w", partnerID, err)
	}
	defer rows.Close()

	out := make([]domain.Assignment, 0, limit)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// TxRepo represents the transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

var _ assignmenttx.Repository = (*TxRepo)(nil)

// GetAssignmentForUpdate - read an assignment with a row lock.
func (r *TxRepo) GetAssignmentForUpdate(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	row := r.tx.QueryRow(ctx,
		`SELECT`+assignmentColumns+`
         FROM order_delivery_assignments
         WHERE id = $1
         FOR UPDATE`, id)
	a, err := scanAssignment(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment %s for update: %w", id, err)
	}
	return a, nil
}

// GetActiveAssignmentByOrder - read the non-terminal assignment of an order with a row lock.
func (r *TxRepo) GetActiveAssignmentByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Assignment, error) {
	row := r.tx.QueryRow(ctx,
		`SELECT`+assignmentColumns+`
         FROM order_delivery_assignments
         WHERE order_id = $1
           AND status NOT IN ('delivered','rejected','failed','cancelled')
         FOR UPDATE`, orderID)
	a, err := scanAssignment(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active assignment for order %s: %w", orderID, err)
	}
	return a, nil
}

// InsertAssignment - insert a new assignment.
func (r *TxRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.tx.Exec(ctx, `
        INSERT INTO order_delivery_assignments (
            id, order_id, partner_id, status, fee, currency, distance_km,
            pickup_address, delivery_address, instructions,
            accepted_at, notes, proof_ref, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
    `, a.ID, a.OrderID, a.PartnerID, a.Status, a.Fee.Amount, a.Fee.Currency, a.DistanceKm,
		a.PickupAddress, a.DeliveryAddress, a.Instructions,
		a.AcceptedAt, a.Notes, a.ProofRef, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert assignment for order %s: %w", a.OrderID, err)
	}
	return nil
}

// UpdateAssignmentStatus applies one state-machine step. The timestamp lands
// in the column matching the new status; terminal failure/cancel states only
// carry notes.
func (r *TxRepo) UpdateAssignmentStatus(ctx context.Context, u domain.AssignmentStatusUpdate) error {
	tsColumn := ""
	switch u.Status {
	case domain.AssignmentAccepted:
		tsColumn = "accepted_at"
	case domain.AssignmentPickedUp:
		tsColumn = "picked_up_at"
	case domain.AssignmentInTransit:
		tsColumn = "in_transit_at"
	case domain.AssignmentDelivered:
		tsColumn = "delivered_at"
	}

	q := `
        UPDATE order_delivery_assignments
        SET status     = $2,
            notes      = COALESCE($3, notes),
            proof_ref  = COALESCE($4, proof_ref),
            updated_at = $5`
	if tsColumn != "" {
		q += `, ` + tsColumn + ` = $5`
	}
	q += ` WHERE id = $1`

	ct, err := r.tx.Exec(ctx, q, u.ID, u.Status, u.Notes, u.ProofRef, u.At)
	if err != nil {
		return fmt.Errorf("update assignment %s to %s: %w", u.ID, u.Status, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("assignment %s not found", u.ID)
	}
	return nil
}

// GetOrderForUpdate - read an order with a row lock.
func (r *TxRepo) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, seller_id, status, total_amount, currency,
               delivery_lat, delivery_lon, city, state, country,
               delivery_partner_id, created_at
        FROM orders
        WHERE id = $1
        FOR UPDATE`, id)

	o, err := scanOrder(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %s for update: %w", id, err)
	}
	return o, nil
}

// SetOrderPartner - bind a partner to the order.
func (r *TxRepo) SetOrderPartner(ctx context.Context, orderID, partnerID uuid.UUID) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders
        SET delivery_partner_id = $2, updated_at = now()
        WHERE id = $1
    `, orderID, partnerID)
	if err != nil {
		return fmt.Errorf("set partner on order %s: %w", orderID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

// UpdateOrderStatus - move the order to a new status.
func (r *TxRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders
        SET status = $2, updated_at = now()
        WHERE id = $1
    `, orderID, string(status))
	if err != nil {
		return fmt.Errorf("update order %s status: %w", orderID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

// InsertOrderStatusChange - append an order-status audit record.
func (r *TxRepo) InsertOrderStatusChange(ctx context.Context, ch domain.OrderStatusChange) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO order_status_history (order_id, from_status, to_status, actor_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, ch.OrderID, string(ch.FromStatus), string(ch.ToStatus), ch.ActorID, ch.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert status history for order %s: %w", ch.OrderID, err)
	}
	return nil
}

// GetPartnerForUpdate - read a partner with a row lock.
func (r *TxRepo) GetPartnerForUpdate(ctx context.Context, id uuid.UUID) (*domain.DeliveryPartner, error) {
	row := r.tx.QueryRow(ctx,
		`SELECT`+partnerColumns+` FROM delivery_partners WHERE id=$1 FOR UPDATE`, id)
	p, err := scanPartner(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner %s for update: %w", id, err)
	}
	return p, nil
}

// AcquirePartnerCapacity performs the conditional increment that implements
// the capacity gate. Zero rows affected means the gate said no.
func (r *TxRepo) AcquirePartnerCapacity(ctx context.Context, id uuid.UUID) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_partners
        SET current_active_orders = current_active_orders + 1,
            updated_at = now()
        WHERE id = $1
          AND is_verified
          AND is_active
          AND current_active_orders < max_daily_capacity
    `, id)
	if err != nil {
		return false, fmt.Errorf("acquire capacity for partner %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ReleasePartnerCapacity - decrement active orders floored at zero.
func (r *TxRepo) ReleasePartnerCapacity(ctx context.Context, id uuid.UUID, delivered bool) error {
	q := `
        UPDATE delivery_partners
        SET current_active_orders = GREATEST(current_active_orders - 1, 0),
            updated_at = now()`
	if delivered {
		q += `,
            total_deliveries = total_deliveries + 1,
            successful_deliveries = successful_deliveries + 1`
	}
	q += ` WHERE id = $1`

	ct, err := r.tx.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("release capacity for partner %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("partner %s not found", id)
	}
	return nil
}

const requestColumns = `
    id, order_id, partner_id, proposed_fee, currency, status, expires_at, created_at`

func scanRequest(row interface{ Scan(...any) error }) (*domain.DeliveryRequest, error) {
	var req domain.DeliveryRequest
	err := row.Scan(
		&req.ID, &req.OrderID, &req.PartnerID,
		&req.ProposedFee.Amount, &req.ProposedFee.Currency,
		&req.Status, &req.ExpiresAt, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetRequestForUpdate - read a delivery request with a row lock.
func (r *TxRepo) GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*domain.DeliveryRequest, error) {
	row := r.tx.QueryRow(ctx,
		`SELECT`+requestColumns+` FROM delivery_requests WHERE id=$1 FOR UPDATE`, id)
	req, err := scanRequest(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request %s for update: %w", id, err)
	}
	return req, nil
}

// FindActiveRequest - find a pending/accepted request for the (order, partner) pair.
func (r *TxRepo) FindActiveRequest(ctx context.Context, orderID, partnerID uuid.UUID) (*domain.DeliveryRequest, error) {
	row := r.tx.QueryRow(ctx,
		`SELECT`+requestColumns+`
         FROM delivery_requests
         WHERE order_id = $1 AND partner_id = $2 AND status IN ('pending','accepted')
         FOR UPDATE`, orderID, partnerID)
	req, err := scanRequest(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active request order=%s partner=%s: %w", orderID, partnerID, err)
	}
	return req, nil
}

// InsertRequest - insert a new delivery request.
func (r *TxRepo) InsertRequest(ctx context.Context, req *domain.DeliveryRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	_, err := r.tx.Exec(ctx, `
        INSERT INTO delivery_requests (id, order_id, partner_id, proposed_fee, currency, status, expires_at, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, req.ID, req.OrderID, req.PartnerID,
		req.ProposedFee.Amount, req.ProposedFee.Currency,
		req.Status, req.ExpiresAt, req.CreatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.Conflict
		}
		return fmt.Errorf("insert request for order %s: %w", req.OrderID, err)
	}
	return nil
}

// UpdateRequestStatus - move a request to a new status.
func (r *TxRepo) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_requests
        SET status = $2, updated_at = now()
        WHERE id = $1
    `, id, string(status))
	if err != nil {
		return fmt.Errorf("update request %s to %s: %w", id, status, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("request %s not found", id)
	}
	return nil
}

// RejectOtherPendingRequests - reject competing pending requests once one converts.
func (r *TxRepo) RejectOtherPendingRequests(ctx context.Context, orderID, acceptedID uuid.UUID) error {
	_, err := r.tx.Exec(ctx, `
        UPDATE delivery_requests
        SET status = 'rejected', updated_at = now()
        WHERE order_id = $1 AND id <> $2 AND status = 'pending'
    `, orderID, acceptedID)
	if err != nil {
		return fmt.Errorf("reject competing requests for order %s: %w", orderID, err)
	}
	return nil
}
