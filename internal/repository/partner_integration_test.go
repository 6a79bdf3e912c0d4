//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/repository"
)

type PartnerRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.PartnerRepo
}

func (s *PartnerRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewPartnerRepo(tcPool)
}

func (s *PartnerRepositorySuite) SetupTest() {
	s.Require().NoError(truncateAll(context.Background(), s.pool))
}

func (s *PartnerRepositorySuite) newPartner(name string) *domain.DeliveryPartner {
	return &domain.DeliveryPartner{
		UserID:          uuid.New(),
		Name:            name,
		Phone:           "+12025550142",
		IsActive:        true,
		Location:        &domain.Point{Lat: 40.73, Lon: -73.99},
		ServiceRadiusKm: 10,
		ServiceCities:   []string{"Brooklyn", "Queens"},
		Pricing: domain.PricingModel{
			Kind:    domain.PricingFlat,
			BaseFee: domain.Money{Amount: 1500, Currency: "USD"},
		},
		MaxDailyCapacity: 5,
	}
}

func (s *PartnerRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	in := s.newPartner("Swift Couriers")

	id, err := s.repo.Create(ctx, in)
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, id)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal(id, got.ID)
	s.Equal(in.UserID, got.UserID)
	s.Equal(in.Name, got.Name)
	s.Equal(in.Phone, got.Phone)
	s.False(got.IsVerified)
	s.True(got.IsActive)
	s.Require().NotNil(got.Location)
	s.InDelta(in.Location.Lat, got.Location.Lat, 1e-9)
	s.InDelta(in.Location.Lon, got.Location.Lon, 1e-9)
	s.Equal(in.ServiceCities, got.ServiceCities)
	s.Equal(domain.PricingFlat, got.Pricing.Kind)
	s.Equal(int64(1500), got.Pricing.BaseFee.Amount)
	s.Equal("USD", got.Pricing.BaseFee.Currency)
	s.Equal(0, got.CurrentActiveOrders)
	s.Equal(5, got.MaxDailyCapacity)
	s.Equal(int64(0), got.TotalDeliveries)
}

func (s *PartnerRepositorySuite) TestCreate_DuplicateUser() {
	ctx := context.Background()

	first := s.newPartner("First Profile")
	_, err := s.repo.Create(ctx, first)
	s.Require().NoError(err)

	second := s.newPartner("Second Profile")
	second.UserID = first.UserID
	_, err = s.repo.Create(ctx, second)
	s.ErrorIs(err, apperr.Conflict, "one profile per user")
}

func (s *PartnerRepositorySuite) TestGetByUserID() {
	ctx := context.Background()

	in := s.newPartner("Night Owl Delivery")
	id, err := s.repo.Create(ctx, in)
	s.Require().NoError(err)

	got, err := s.repo.GetByUserID(ctx, in.UserID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(id, got.ID)

	missing, err := s.repo.GetByUserID(ctx, uuid.New())
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *PartnerRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), uuid.New())
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *PartnerRepositorySuite) TestList_OrderAndPaging() {
	ctx := context.Background()

	for _, name := range []string{"Charlie", "Alpha", "Bravo"} {
		_, err := s.repo.Create(ctx, s.newPartner(name))
		s.Require().NoError(err)
	}

	all, err := s.repo.List(ctx, nil, nil)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Alpha", all[0].Name)
	s.Equal("Bravo", all[1].Name)
	s.Equal("Charlie", all[2].Name)

	limit, offset := 1, 1
	page, err := s.repo.List(ctx, &limit, &offset)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("Bravo", page[0].Name)
}

func (s *PartnerRepositorySuite) TestUpdatePartial_SubsetOfFields() {
	ctx := context.Background()

	in := s.newPartner("Old Name")
	id, err := s.repo.Create(ctx, in)
	s.Require().NoError(err)

	name := "New Name"
	radius := 25.0
	pricing := domain.PricingModel{
		Kind:      domain.PricingPerKm,
		PerKmRate: domain.Money{Amount: 200, Currency: "USD"},
	}
	ok, err := s.repo.UpdatePartial(ctx, domain.PartialPartnerUpdate{
		ID:              id,
		Name:            &name,
		ServiceRadiusKm: &radius,
		Pricing:         &pricing,
	})
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal("New Name", got.Name)
	s.InDelta(25.0, got.ServiceRadiusKm, 1e-9)
	s.Equal(domain.PricingPerKm, got.Pricing.Kind)
	s.Equal(int64(200), got.Pricing.PerKmRate.Amount)

	// untouched fields survive
	s.Equal(in.Phone, got.Phone)
	s.Equal(in.ServiceCities, got.ServiceCities)
	s.Equal(5, got.MaxDailyCapacity)
}

func (s *PartnerRepositorySuite) TestUpdatePartial_NotFound() {
	name := "Whoever"
	ok, err := s.repo.UpdatePartial(context.Background(), domain.PartialPartnerUpdate{
		ID:   uuid.New(),
		Name: &name,
	})
	s.Require().NoError(err)
	s.False(ok)
}

func TestPartnerRepositorySuite(t *testing.T) {
	suite.Run(t, new(PartnerRepositorySuite))
}
