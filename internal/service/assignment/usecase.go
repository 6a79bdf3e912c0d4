// Package assignment owns the delivery assignment lifecycle: creation,
// partner requests and every status transition, with all side effects applied
// inside one storage transaction.
package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	"service-delivery/internal/ports/assignmenttx"
	"service-delivery/internal/service/pricing"
)

// Metrics groups the counters the service reports. Nil fields disable the
// corresponding counter.
type Metrics struct {
	Transitions      *prometheus.CounterVec
	CapacityRejected prometheus.Counter
}

func (m Metrics) observeTransition(to domain.AssignmentStatus) {
	if m.Transitions != nil {
		m.Transitions.WithLabelValues(string(to)).Inc()
	}
}

func (m Metrics) observeCapacityRejected() {
	if m.CapacityRejected != nil {
		m.CapacityRejected.Inc()
	}
}

// Service - the assignment state machine and its entry points.
type Service struct {
	repo             TxRunner
	calc             *pricing.Calculator
	notifier         Notifier
	metrics          Metrics
	requestTTL       time.Duration
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a new assignment Service.
func NewService(repo TxRunner, calc *pricing.Calculator, notifier Notifier, m Metrics, requestTTL, timeout time.Duration, logger logx.Logger) *Service {
	if requestTTL <= 0 {
		requestTTL = 24 * time.Hour
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		calc:             calc,
		notifier:         notifier,
		metrics:          m,
		requestTTL:       requestTTL,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// DirectAssignInput - parameters of a seller-initiated assignment.
type DirectAssignInput struct {
	OrderID   uuid.UUID
	PartnerID uuid.UUID
	// ActorID must be the order's seller.
	ActorID uuid.UUID
	// Fee overrides the calculated fee; it must stay within the deviation
	// band. Nil means charge the calculated fee.
	Fee *domain.Money

	PickupAddress   string
	DeliveryAddress string
	Instructions    string
}

// DirectAssign binds a partner to an order on the seller's say-so, bypassing
// partner-initiated requests. The assignment starts in accepted since no
// negotiation happened.
func (s *Service) DirectAssign(ctx context.Context, in DirectAssignInput) (*domain.Assignment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var created *domain.Assignment

	err := s.repo.WithTx(ctx, func(tx assignmenttx.Repository) error {
		order, err := tx.GetOrderForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.NotFound
		}
		if order.SellerID != in.ActorID {
			return apperr.Forbidden
		}

		existing, err := tx.GetActiveAssignmentByOrder(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict
		}

		partner, err := tx.GetPartnerForUpdate(ctx, in.PartnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return apperr.NotFound
		}
		if !partner.IsVerified || !partner.IsActive {
			return apperr.Forbidden
		}

		dist := distanceKm(order, partner)
		fee, err := s.settleFee(dist, order, partner, in.Fee)
		if err != nil {
			return err
		}

		ok, err := tx.AcquirePartnerCapacity(ctx, partner.ID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.CapacityExceeded
		}

		now := s.now()
		a := &domain.Assignment{
			OrderID:         order.ID,
			PartnerID:       partner.ID,
			Status:          domain.AssignmentAccepted,
			Fee:             fee,
			DistanceKm:      dist,
			PickupAddress:   in.PickupAddress,
			DeliveryAddress: in.DeliveryAddress,
			Instructions:    in.Instructions,
			AcceptedAt:      &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.InsertAssignment(ctx, a); err != nil {
			return err
		}
		if err := tx.SetOrderPartner(ctx, order.ID, partner.ID); err != nil {
			return err
		}

		created = a
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.CapacityExceeded) {
			s.metrics.observeCapacityRejected()
		}
		return nil, err
	}

	s.metrics.observeTransition(domain.AssignmentAccepted)
	s.logger.Info("assignment created",
		logx.String("event", "assignment_created"),
		logx.String("assignment_id", created.ID.String()),
		logx.String("order_id", created.OrderID.String()),
		logx.String("partner_id", created.PartnerID.String()),
		logx.Int64("fee", created.Fee.Amount),
	)
	s.notifyCreated(ctx, *created)

	return created, nil
}

// RequestOrderInput - parameters of a partner's delivery proposal.
type RequestOrderInput struct {
	OrderID   uuid.UUID
	PartnerID uuid.UUID
	// ActorID must be the partner's user.
	ActorID uuid.UUID
	// ProposedFee is optional; nil means propose the calculated fee.
	ProposedFee *domain.Money
}

// RequestOrder records a partner's pending proposal to deliver an order.
// No capacity is reserved until the seller accepts; the gate is still
// checked here so a saturated partner gets an immediate answer.
func (s *Service) RequestOrder(ctx context.Context, in RequestOrderInput) (*domain.DeliveryRequest, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var created *domain.DeliveryRequest

	err := s.repo.WithTx(ctx, func(tx assignmenttx.Repository) error {
		order, err := tx.GetOrderForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.NotFound
		}

		partner, err := tx.GetPartnerForUpdate(ctx, in.PartnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return apperr.NotFound
		}
		if partner.UserID != in.ActorID {
			return apperr.Forbidden
		}
		if !partner.CanAcceptWork() {
			if !partner.IsVerified || !partner.IsActive {
				return apperr.Forbidden
			}
			return apperr.CapacityExceeded
		}

		assigned, err := tx.GetActiveAssignmentByOrder(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if assigned != nil {
			return apperr.Conflict
		}

		now := s.now()
		prev, err := tx.FindActiveRequest(ctx, in.OrderID, in.PartnerID)
		if err != nil {
			return err
		}
		if prev != nil {
			if prev.Status == domain.RequestPending && !now.Before(prev.ExpiresAt) {
				// stale leftover, retire it and let the new one through
				if err := tx.UpdateRequestStatus(ctx, prev.ID, domain.RequestExpired); err != nil {
					return err
				}
			} else {
				return apperr.Conflict
			}
		}

		fee, err := s.settleFee(distanceKm(order, partner), order, partner, in.ProposedFee)
		if err != nil {
			return err
		}

		req := &domain.DeliveryRequest{
			OrderID:     order.ID,
			PartnerID:   partner.ID,
			ProposedFee: fee,
			Status:      domain.RequestPending,
			ExpiresAt:   now.Add(s.requestTTL),
			CreatedAt:   now,
		}
		if err := tx.InsertRequest(ctx, req); err != nil {
			return err
		}

		created = req
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.CapacityExceeded) {
			s.metrics.observeCapacityRejected()
		}
		return nil, err
	}

	s.logger.Info("delivery requested",
		logx.String("event", "delivery_requested"),
		logx.String("request_id", created.ID.String()),
		logx.String("order_id", created.OrderID.String()),
		logx.String("partner_id", created.PartnerID.String()),
	)

	return created, nil
}

// AcceptRequestInput - parameters for converting a request into an assignment.
type AcceptRequestInput struct {
	RequestID uuid.UUID
	// ActorID must be the order's seller.
	ActorID uuid.UUID

	PickupAddress   string
	DeliveryAddress string
	Instructions    string
}

// AcceptRequest converts a pending request into the order's assignment at the
// request's proposed fee, rejecting every other pending request for the order.
func (s *Service) AcceptRequest(ctx context.Context, in AcceptRequestInput) (*domain.Assignment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var created *domain.Assignment

	err := s.repo.WithTx(ctx, func(tx assignmenttx.Repository) error {
		req, err := tx.GetRequestForUpdate(ctx, in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return apperr.NotFound
		}

		order, err := tx.GetOrderForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.NotFound
		}
		if order.SellerID != in.ActorID {
			return apperr.Forbidden
		}

		now := s.now()
		if !req.Actionable(now) {
			if req.Status == domain.RequestPending {
				// past expiry, record the fact while we hold the lock
				if err := tx.UpdateRequestStatus(ctx, req.ID, domain.RequestExpired); err != nil {
					return err
				}
			}
			return apperr.Conflict
		}

		existing, err := tx.GetActiveAssignmentByOrder(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict
		}

		partner, err := tx.GetPartnerForUpdate(ctx, req.PartnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return apperr.NotFound
		}

		ok, err := tx.AcquirePartnerCapacity(ctx, partner.ID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.CapacityExceeded
		}

		if err := tx.UpdateRequestStatus(ctx, req.ID, domain.RequestAccepted); err != nil {
			return err
		}
		if err := tx.RejectOtherPendingRequests(ctx, req.OrderID, req.ID); err != nil {
			return err
		}

		a := &domain.Assignment{
			OrderID:         order.ID,
			PartnerID:       partner.ID,
			Status:          domain.AssignmentAccepted,
			Fee:             req.ProposedFee,
			DistanceKm:      distanceKm(order, partner),
			PickupAddress:   in.PickupAddress,
			DeliveryAddress: in.DeliveryAddress,
			Instructions:    in.Instructions,
			AcceptedAt:      &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.InsertAssignment(ctx, a); err != nil {
			return err
		}
		if err := tx.SetOrderPartner(ctx, order.ID, partner.ID); err != nil {
			return err
		}

		created = a
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.CapacityExceeded) {
			s.metrics.observeCapacityRejected()
		}
		return nil, err
	}

	s.metrics.observeTransition(domain.AssignmentAccepted)
	s.logger.Info("request accepted",
		logx.String("event", "request_accepted"),
		logx.String("request_id", in.RequestID.String()),
		logx.String("assignment_id", created.ID.String()),
		logx.String("order_id", created.OrderID.String()),
	)
	s.notifyCreated(ctx, *created)

	return created, nil
}

// TransitionInput - one state-machine step request.
type TransitionInput struct {
	AssignmentID uuid.UUID
	ActorID      uuid.UUID
	To           domain.AssignmentStatus
	Notes        *string
	ProofRef     *string
}

// Transition advances an assignment one legal step, propagating the order
// status and adjusting partner counters in the same transaction.
func (s *Service) Transition(ctx context.Context, in TransitionInput) (*domain.Assignment, error) {
	if !in.To.Valid() {
		return nil, apperr.Invalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		updated *domain.Assignment
		from    domain.AssignmentStatus
	)

	err := s.repo.WithTx(ctx, func(tx assignmenttx.Repository) error {
		a, err := tx.GetAssignmentForUpdate(ctx, in.AssignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.NotFound
		}

		order, err := tx.GetOrderForUpdate(ctx, a.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.NotFound
		}

		partner, err := tx.GetPartnerForUpdate(ctx, a.PartnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return apperr.NotFound
		}

		if err := authorizeTransition(in.To, in.ActorID, partner.UserID, order.SellerID); err != nil {
			return err
		}

		from = a.Status
		if err := s.apply(ctx, tx, a, order, in.To, in.ActorID, in.Notes, in.ProofRef); err != nil {
			return err
		}

		updated = a
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.CapacityExceeded) {
			s.metrics.observeCapacityRejected()
		}
		return nil, err
	}

	s.metrics.observeTransition(in.To)
	s.logger.Info("assignment transitioned",
		logx.String("event", "assignment_transitioned"),
		logx.String("assignment_id", updated.ID.String()),
		logx.String("from", string(from)),
		logx.String("to", string(in.To)),
	)
	s.notifyStatusChanged(ctx, *updated, from)

	return updated, nil
}

// CancelForOrder retires the order's active assignment after the order itself
// was cancelled upstream. No-op when the order has no active assignment. The
// target state depends on how far delivery got: pending is rejected, accepted
// and picked_up are cancelled, in_transit is failed.
func (s *Service) CancelForOrder(ctx context.Context, orderID, actorID uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		updated *domain.Assignment
		from    domain.AssignmentStatus
		to      domain.AssignmentStatus
	)

	err := s.repo.WithTx(ctx, func(tx assignmenttx.Repository) error {
		a, err := tx.GetActiveAssignmentByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if a == nil {
			return nil
		}

		order, err := tx.GetOrderForUpdate(ctx, a.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.NotFound
		}

		switch a.Status {
		case domain.AssignmentPending:
			to = domain.AssignmentRejected
		case domain.AssignmentInTransit:
			to = domain.AssignmentFailed
		default:
			to = domain.AssignmentCancelled
		}

		from = a.Status
		note := "order cancelled"
		if err := s.apply(ctx, tx, a, order, to, actorID, &note, nil); err != nil {
			return err
		}

		updated = a
		return nil
	})
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}

	s.metrics.observeTransition(to)
	s.logger.Info("assignment retired with order",
		logx.String("event", "assignment_retired"),
		logx.String("assignment_id", updated.ID.String()),
		logx.String("order_id", orderID.String()),
		logx.String("to", string(to)),
	)
	s.notifyStatusChanged(ctx, *updated, from)

	return nil
}

// apply performs one validated transition with all side effects, mutating a
// in place to the committed state. Must run inside the transaction that read
// a with a row lock.
func (s *Service) apply(ctx context.Context, tx assignmenttx.Repository, a *domain.Assignment, order *domain.Order, to domain.AssignmentStatus, actorID uuid.UUID, notes, proofRef *string) error {
	if !a.Status.CanTransitionTo(to) {
		return a.Status.TransitionErr(to)
	}

	now := s.now()
	if err := tx.UpdateAssignmentStatus(ctx, domain.AssignmentStatusUpdate{
		ID:       a.ID,
		Status:   to,
		At:       now,
		Notes:    notes,
		ProofRef: proofRef,
	}); err != nil {
		return err
	}

	if orderStatus, ok := domain.OrderStatusFor(to); ok && order.Status != orderStatus {
		if err := tx.UpdateOrderStatus(ctx, order.ID, orderStatus); err != nil {
			return err
		}
		if err := tx.InsertOrderStatusChange(ctx, domain.OrderStatusChange{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   orderStatus,
			ActorID:    actorID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
	}

	switch {
	case a.Status == domain.AssignmentPending && to == domain.AssignmentAccepted:
		// capacity is held from acceptance onward
		ok, err := tx.AcquirePartnerCapacity(ctx, a.PartnerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.CapacityExceeded
		}
	case to == domain.AssignmentDelivered, to == domain.AssignmentFailed, to == domain.AssignmentCancelled:
		if err := tx.ReleasePartnerCapacity(ctx, a.PartnerID, to == domain.AssignmentDelivered); err != nil {
			return err
		}
	}

	a.Status = to
	a.UpdatedAt = now
	if notes != nil {
		a.Notes = notes
	}
	if proofRef != nil {
		a.ProofRef = proofRef
	}
	switch to {
	case domain.AssignmentAccepted:
		a.AcceptedAt = &now
	case domain.AssignmentPickedUp:
		a.PickedUpAt = &now
	case domain.AssignmentInTransit:
		a.InTransitAt = &now
	case domain.AssignmentDelivered:
		a.DeliveredAt = &now
	}
	return nil
}

// authorizeTransition layers the actor rule over the state table: lifecycle
// progress belongs to the bound partner's user, cancellation also to the
// order's seller.
func authorizeTransition(to domain.AssignmentStatus, actorID, partnerUserID, sellerID uuid.UUID) error {
	if to == domain.AssignmentCancelled {
		if actorID == partnerUserID || actorID == sellerID {
			return nil
		}
		return apperr.Forbidden
	}
	if actorID != partnerUserID {
		return apperr.Forbidden
	}
	return nil
}

// settleFee returns the fee to charge: the calculated reference when no
// proposal was made, otherwise the proposal after deviation validation.
func (s *Service) settleFee(dist *float64, order *domain.Order, partner *domain.DeliveryPartner, proposed *domain.Money) (domain.Money, error) {
	var d float64
	if dist != nil {
		d = *dist
	}
	calculated, err := s.calc.Fee(d, order.Total, partner.Pricing)
	if err != nil {
		return domain.Money{}, err
	}
	if proposed == nil {
		return calculated, nil
	}
	if err := s.calc.ValidateProposed(*proposed, calculated); err != nil {
		return domain.Money{}, err
	}
	settled := *proposed
	if settled.Currency == "" {
		settled.Currency = calculated.Currency
	}
	return settled, nil
}

// distanceKm is nil when either side has no recorded coordinates.
func distanceKm(order *domain.Order, partner *domain.DeliveryPartner) *float64 {
	if order.Destination == nil || partner.Location == nil {
		return nil
	}
	d := domain.HaversineKm(*partner.Location, *order.Destination)
	return &d
}

func (s *Service) notifyCreated(ctx context.Context, a domain.Assignment) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.AssignmentCreated(ctx, a); err != nil {
		s.logger.Warn("assignment created notification failed",
			logx.String("assignment_id", a.ID.String()),
			logx.Err(err),
		)
	}
}

func (s *Service) notifyStatusChanged(ctx context.Context, a domain.Assignment, from domain.AssignmentStatus) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.AssignmentStatusChanged(ctx, a, from); err != nil {
		s.logger.Warn("assignment status notification failed",
			logx.String("assignment_id", a.ID.String()),
			logx.Err(err),
		)
	}
}
