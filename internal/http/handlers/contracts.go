package handlers

import (
	"context"

	"github.com/google/uuid"

	"service-delivery/internal/domain"
	"service-delivery/internal/repository"
	"service-delivery/internal/service/assignment"
	"service-delivery/internal/service/matching"
	"service-delivery/internal/service/partner"
	"service-delivery/internal/service/stats"
)

type partnerUsecase interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryPartner, error)
	List(ctx context.Context, limit, offset *int) ([]domain.DeliveryPartner, error)
	Create(ctx context.Context, p *domain.DeliveryPartner) (uuid.UUID, error)
	UpdatePartial(ctx context.Context, actorID uuid.UUID, u domain.PartialPartnerUpdate) error
}

// NewPartnerUsecase wires a partner Service into a partnerUsecase.
func NewPartnerUsecase(svc *partner.Service) partnerUsecase {
	return svc
}

type matchingUsecase interface {
	ListAvailable(ctx context.Context, partnerID uuid.UUID) (domain.MatchResult, error)
}

// NewMatchingUsecase wires a matching Service into a matchingUsecase.
func NewMatchingUsecase(svc *matching.Service) matchingUsecase {
	return svc
}

type statsUsecase interface {
	PartnerStatistics(ctx context.Context, partnerID uuid.UUID, period domain.StatsPeriod) (domain.PartnerStatistics, error)
}

// NewStatsUsecase wires a stats Service into a statsUsecase.
func NewStatsUsecase(svc *stats.Service) statsUsecase {
	return svc
}

type assignmentUsecase interface {
	DirectAssign(ctx context.Context, in assignment.DirectAssignInput) (*domain.Assignment, error)
	RequestOrder(ctx context.Context, in assignment.RequestOrderInput) (*domain.DeliveryRequest, error)
	AcceptRequest(ctx context.Context, in assignment.AcceptRequestInput) (*domain.Assignment, error)
	Transition(ctx context.Context, in assignment.TransitionInput) (*domain.Assignment, error)
}

// NewAssignmentUsecase wires an assignment Service into an assignmentUsecase.
func NewAssignmentUsecase(svc *assignment.Service) assignmentUsecase {
	return svc
}

type assignmentReader interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]domain.Assignment, error)
}

// NewAssignmentReader exposes the assignment read side to HTTP handlers.
func NewAssignmentReader(r *repository.AssignmentRepo) assignmentReader {
	return r
}

type requestReader interface {
	ListByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]domain.DeliveryRequest, error)
}

// NewRequestReader exposes the delivery request read side to HTTP handlers.
func NewRequestReader(r *repository.RequestRepo) requestReader {
	return r
}
