package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// rePhone accepts E.164-style numbers.
var rePhone = regexp.MustCompile(`^\+[0-9]{7,15}$`)

// ValidatePhone validates the phone number format.
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}

// PricingKind selects how a partner's delivery fee is computed.
type PricingKind string

// Supported pricing models.
const (
	PricingFlat       PricingKind = "flat"
	PricingPerKm      PricingKind = "per_km"
	PricingPercentage PricingKind = "percentage"
	PricingHybrid     PricingKind = "hybrid"
)

// Valid checks if the PricingKind is a known model.
func (k PricingKind) Valid() bool {
	switch k {
	case PricingFlat, PricingPerKm, PricingPercentage, PricingHybrid:
		return true
	default:
		return false
	}
}

// PricingModel carries a partner's rate parameters. Unset rates default to
// zero; components not used by the kind are ignored.
type PricingModel struct {
	Kind      PricingKind
	BaseFee   Money
	PerKmRate Money // per whole km
	PercentBP int64 // percentage of order value in basis points (100 bp = 1%)
}

// DeliveryPartner is one registered courier or courier business.
type DeliveryPartner struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	Phone      string
	IsVerified bool
	IsActive   bool

	// Location is the current geolocation; nil switches matching to area mode.
	Location        *Point
	ServiceRadiusKm float64
	ServiceCities   []string

	Pricing PricingModel

	CurrentActiveOrders  int
	MaxDailyCapacity     int
	TotalDeliveries      int64
	SuccessfulDeliveries int64
}

// CanAcceptWork is the capacity/eligibility gate: verified, active and below
// max daily capacity. It must be re-checked inside the transaction that
// commits an assignment, not only at listing time.
func (p *DeliveryPartner) CanAcceptWork() bool {
	if p == nil || !p.IsVerified || !p.IsActive {
		return false
	}
	return p.CurrentActiveOrders < p.MaxDailyCapacity
}

// ServesCity reports whether city matches one of the declared service areas,
// case-insensitively.
func (p *DeliveryPartner) ServesCity(city string) bool {
	for _, c := range p.ServiceCities {
		if strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}

// PartialPartnerUpdate carries optional fields to update a partner.
// A nil field means "do not change" that attribute.
type PartialPartnerUpdate struct {
	ID               uuid.UUID
	Name             *string
	Phone            *string
	IsActive         *bool
	Location         *Point
	ServiceRadiusKm  *float64
	ServiceCities    *[]string
	Pricing          *PricingModel
	MaxDailyCapacity *int
}
