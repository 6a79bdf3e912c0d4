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

type OrderRepositorySuite struct {
	suite.Suite
	pool           *pgxpool.Pool
	repo           *repository.OrderRepo
	assignmentRepo *repository.AssignmentRepo
	partnerRepo    *repository.PartnerRepo
}

func (s *OrderRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewOrderRepo(tcPool)
	s.assignmentRepo = repository.NewAssignmentRepo(tcPool)
	s.partnerRepo = repository.NewPartnerRepo(tcPool)
}

func (s *OrderRepositorySuite) SetupTest() {
	s.Require().NoError(truncateAll(context.Background(), s.pool))
}

func (s *OrderRepositorySuite) createPartner() uuid.UUID {
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

func (s *OrderRepositorySuite) seedOrder(o domain.Order) uuid.UUID {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.SellerID == uuid.Nil {
		o.SellerID = uuid.New()
	}
	if o.Status == "" {
		o.Status = domain.OrderProcessing
	}
	if o.Total.Amount == 0 {
		o.Total = domain.Money{Amount: 50_000, Currency: "USD"}
	}
	s.Require().NoError(insertOrder(context.Background(), s.pool, &o))
	return o.ID
}

func (s *OrderRepositorySuite) TestGet() {
	ctx := context.Background()

	dest := &domain.Point{Lat: 40.73, Lon: -73.99}
	id := s.seedOrder(domain.Order{
		Destination: dest,
		City:        "Brooklyn",
		State:       "NY",
		Country:     "US",
	})

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(id, got.ID)
	s.Equal(domain.OrderProcessing, got.Status)
	s.Equal(int64(50_000), got.Total.Amount)
	s.Require().NotNil(got.Destination)
	s.InDelta(dest.Lat, got.Destination.Lat, 1e-9)
	s.Equal("Brooklyn", got.City)

	missing, err := s.repo.Get(ctx, uuid.New())
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *OrderRepositorySuite) TestFindNearbyOpenOrders() {
	ctx := context.Background()

	partnerID := s.createPartner()
	here := domain.Point{Lat: 40.7300, Lon: -73.9900}

	nearID := s.seedOrder(domain.Order{
		Destination: &domain.Point{Lat: 40.7350, Lon: -73.9900}, // ~0.6 km away
		City:        "Brooklyn",
	})
	s.seedOrder(domain.Order{
		Destination: &domain.Point{Lat: 41.5000, Lon: -73.9900}, // ~85 km away
		City:        "Poughkeepsie",
	})
	s.seedOrder(domain.Order{City: "Brooklyn"}) // no coordinates

	got, err := s.repo.FindNearbyOpenOrders(ctx, repository.NearbyQuery{
		PartnerID:    partnerID,
		Location:     here,
		RadiusKm:     10,
		OpenStatuses: []string{"processing"},
		Limit:        20,
	})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(nearID, got[0].Order.ID)
	s.Require().NotNil(got[0].DistanceKm)
	s.InDelta(0.56, *got[0].DistanceKm, 0.1)
}

func (s *OrderRepositorySuite) TestFindNearbyOpenOrders_ExcludesTakenAndRequested() {
	ctx := context.Background()

	partnerID := s.createPartner()
	otherPartner := s.createPartner()
	here := domain.Point{Lat: 40.7300, Lon: -73.9900}
	dest := &domain.Point{Lat: 40.7350, Lon: -73.9900}

	takenID := s.seedOrder(domain.Order{Destination: dest, City: "Brooklyn"})
	requestedID := s.seedOrder(domain.Order{Destination: dest, City: "Brooklyn"})
	openID := s.seedOrder(domain.Order{Destination: dest, City: "Brooklyn"})

	err := s.assignmentRepo.WithTx(ctx, func(tx assignmenttx.Repository) error {
		if err := tx.InsertAssignment(ctx, &domain.Assignment{
			OrderID:   takenID,
			PartnerID: otherPartner,
			Status:    domain.AssignmentAccepted,
			Fee:       domain.Money{Amount: 1000, Currency: "USD"},
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return tx.InsertRequest(ctx, &domain.DeliveryRequest{
			OrderID:     requestedID,
			PartnerID:   partnerID,
			ProposedFee: domain.Money{Amount: 1000, Currency: "USD"},
			Status:      domain.RequestPending,
			ExpiresAt:   time.Now().UTC().Add(24 * time.Hour),
			CreatedAt:   time.Now().UTC(),
		})
	})
	s.Require().NoError(err)

	got, err := s.repo.FindNearbyOpenOrders(ctx, repository.NearbyQuery{
		PartnerID:    partnerID,
		Location:     here,
		RadiusKm:     10,
		OpenStatuses: []string{"processing"},
		Limit:        20,
	})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(openID, got[0].Order.ID)

	// another partner still sees the order only blocked for the requester
	got, err = s.repo.FindNearbyOpenOrders(ctx, repository.NearbyQuery{
		PartnerID:    otherPartner,
		Location:     here,
		RadiusKm:     10,
		OpenStatuses: []string{"processing"},
		Limit:        20,
	})
	s.Require().NoError(err)
	s.Len(got, 2)
}

func (s *OrderRepositorySuite) TestFindOpenOrdersByCities() {
	ctx := context.Background()

	partnerID := s.createPartner()
	now := time.Now().UTC()

	olderID := s.seedOrder(domain.Order{City: "BROOKLYN", CreatedAt: now.Add(-time.Hour)})
	newerID := s.seedOrder(domain.Order{City: "brooklyn", CreatedAt: now})
	s.seedOrder(domain.Order{City: "Chicago", CreatedAt: now})

	got, err := s.repo.FindOpenOrdersByCities(ctx, repository.AreaQuery{
		PartnerID:    partnerID,
		Cities:       []string{"Brooklyn", "Queens"},
		OpenStatuses: []string{"processing"},
		Limit:        20,
	})
	s.Require().NoError(err)
	s.Require().Len(got, 2, "city match is case-insensitive")
	s.Equal(newerID, got[0].Order.ID, "newest first")
	s.Equal(olderID, got[1].Order.ID)
	s.Nil(got[0].DistanceKm, "area mode computes no distance")
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(OrderRepositorySuite))
}
