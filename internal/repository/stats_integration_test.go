//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"service-delivery/internal/domain"
	"service-delivery/internal/ports/assignmenttx"
	"service-delivery/internal/repository"
)

type StatsRepositorySuite struct {
	suite.Suite
	pool           *pgxpool.Pool
	repo           *repository.StatsRepo
	assignmentRepo *repository.AssignmentRepo
	partnerRepo    *repository.PartnerRepo
}

func (s *StatsRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewStatsRepo(tcPool)
	s.assignmentRepo = repository.NewAssignmentRepo(tcPool)
	s.partnerRepo = repository.NewPartnerRepo(tcPool)
}

func (s *StatsRepositorySuite) SetupTest() {
	s.Require().NoError(truncateAll(context.Background(), s.pool))
}

func (s *StatsRepositorySuite) createPartner() uuid.UUID {
	id, err := s.partnerRepo.Create(context.Background(), &domain.DeliveryPartner{
		UserID:     uuid.New(),
		Name:       "Test Partner",
		Phone:      "+12025550142",
		IsVerified: true,
		IsActive:   true,
		Pricing: domain.PricingModel{
			Kind:    domain.PricingFlat,
			BaseFee: domain.Money{Amount: 1000, Currency: "USD"},
		},
		MaxDailyCapacity: 5,
	})
	s.Require().NoError(err)
	return id
}

// seedDelivered writes a delivered assignment with the given fee and
// delivered_at moment.
func (s *StatsRepositorySuite) seedDelivered(partnerID uuid.UUID, fee int64, deliveredAt time.Time) {
	ctx := context.Background()

	orderID := uuid.New()
	s.Require().NoError(insertOrder(ctx, s.pool, &domain.Order{
		ID:       orderID,
		SellerID: uuid.New(),
		Status:   domain.OrderDelivered,
		Total:    domain.Money{Amount: 50_000, Currency: "USD"},
		City:     "Brooklyn",
	}))

	a := &domain.Assignment{
		OrderID:   orderID,
		PartnerID: partnerID,
		Status:    domain.AssignmentAccepted,
		Fee:       domain.Money{Amount: fee, Currency: "USD"},
		CreatedAt: deliveredAt.Add(-time.Hour),
	}
	err := s.assignmentRepo.WithTx(ctx, func(tx assignmenttx.Repository) error {
		if err := tx.InsertAssignment(ctx, a); err != nil {
			return err
		}
		return tx.UpdateAssignmentStatus(ctx, domain.AssignmentStatusUpdate{
			ID:     a.ID,
			Status: domain.AssignmentDelivered,
			At:     deliveredAt,
		})
	})
	s.Require().NoError(err)
}

func (s *StatsRepositorySuite) TestAggregateDeliveredFees_AllTime() {
	ctx := context.Background()

	partnerID := s.createPartner()
	now := time.Now().UTC()

	s.seedDelivered(partnerID, 1000, now.Add(-48*time.Hour))
	s.seedDelivered(partnerID, 3000, now.Add(-time.Hour))

	// non-delivered rows never count
	orderID := uuid.New()
	s.Require().NoError(insertOrder(ctx, s.pool, &domain.Order{
		ID:       orderID,
		SellerID: uuid.New(),
		Status:   domain.OrderProcessing,
		Total:    domain.Money{Amount: 50_000, Currency: "USD"},
	}))
	err := s.assignmentRepo.WithTx(ctx, func(tx assignmenttx.Repository) error {
		return tx.InsertAssignment(ctx, &domain.Assignment{
			OrderID:   orderID,
			PartnerID: partnerID,
			Status:    domain.AssignmentAccepted,
			Fee:       domain.Money{Amount: 9999, Currency: "USD"},
			CreatedAt: now,
		})
	})
	s.Require().NoError(err)

	agg, err := s.repo.AggregateDeliveredFees(ctx, partnerID, nil)
	s.Require().NoError(err)

	s.Equal(int64(2), agg.Count)
	s.Equal(int64(4000), agg.SumMinor)
	s.Equal(int64(2000), agg.AvgMinor)
	s.Equal(int64(1000), agg.MinMinor)
	s.Equal(int64(3000), agg.MaxMinor)
	s.Equal("USD", agg.Currency)
}

func (s *StatsRepositorySuite) TestAggregateDeliveredFees_Window() {
	ctx := context.Background()

	partnerID := s.createPartner()
	now := time.Now().UTC()

	s.seedDelivered(partnerID, 1000, now.Add(-48*time.Hour))
	s.seedDelivered(partnerID, 3000, now.Add(-time.Hour))

	from := now.Add(-24 * time.Hour)
	agg, err := s.repo.AggregateDeliveredFees(ctx, partnerID, &from)
	s.Require().NoError(err)

	s.Equal(int64(1), agg.Count)
	s.Equal(int64(3000), agg.SumMinor)
}

func (s *StatsRepositorySuite) TestAggregateDeliveredFees_Empty() {
	agg, err := s.repo.AggregateDeliveredFees(context.Background(), uuid.New(), nil)
	s.Require().NoError(err)

	s.Equal(int64(0), agg.Count)
	s.Equal(int64(0), agg.SumMinor)
	s.Equal("", agg.Currency)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
