package handlers

import "time"

type moneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type pointDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type pricingDTO struct {
	Kind      string    `json:"kind"`
	BaseFee   *moneyDTO `json:"base_fee,omitempty"`
	PerKmRate *moneyDTO `json:"per_km_rate,omitempty"`
	PercentBP int64     `json:"percent_bp,omitempty"`
}

type partnerDTO struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	Name                 string     `json:"name"`
	Phone                string     `json:"phone"`
	IsVerified           bool       `json:"is_verified"`
	IsActive             bool       `json:"is_active"`
	Location             *pointDTO  `json:"location,omitempty"`
	ServiceRadiusKm      float64    `json:"service_radius_km"`
	ServiceCities        []string   `json:"service_cities,omitempty"`
	Pricing              pricingDTO `json:"pricing"`
	CurrentActiveOrders  int        `json:"current_active_orders"`
	MaxDailyCapacity     int        `json:"max_daily_capacity"`
	TotalDeliveries      int64      `json:"total_deliveries"`
	SuccessfulDeliveries int64      `json:"successful_deliveries"`
}

type createPartnerRequest struct {
	UserID           string      `json:"user_id"`
	Name             string      `json:"name"`
	Phone            string      `json:"phone"`
	Location         *pointDTO   `json:"location,omitempty"`
	ServiceRadiusKm  float64     `json:"service_radius_km,omitempty"`
	ServiceCities    []string    `json:"service_cities,omitempty"`
	Pricing          *pricingDTO `json:"pricing,omitempty"`
	MaxDailyCapacity int         `json:"max_daily_capacity"`
}

type updatePartnerRequest struct {
	Name             *string     `json:"name,omitempty"`
	Phone            *string     `json:"phone,omitempty"`
	IsActive         *bool       `json:"is_active,omitempty"`
	Location         *pointDTO   `json:"location,omitempty"`
	ServiceRadiusKm  *float64    `json:"service_radius_km,omitempty"`
	ServiceCities    *[]string   `json:"service_cities,omitempty"`
	Pricing          *pricingDTO `json:"pricing,omitempty"`
	MaxDailyCapacity *int        `json:"max_daily_capacity,omitempty"`
}

type assignmentDTO struct {
	ID              string     `json:"id"`
	OrderID         string     `json:"order_id"`
	PartnerID       string     `json:"partner_id"`
	Status          string     `json:"status"`
	Fee             moneyDTO   `json:"fee"`
	DistanceKm      *float64   `json:"distance_km,omitempty"`
	PickupAddress   string     `json:"pickup_address,omitempty"`
	DeliveryAddress string     `json:"delivery_address,omitempty"`
	Instructions    string     `json:"instructions,omitempty"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	PickedUpAt      *time.Time `json:"picked_up_at,omitempty"`
	InTransitAt     *time.Time `json:"in_transit_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	ProofRef        *string    `json:"proof_ref,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type directAssignRequest struct {
	OrderID         string    `json:"order_id"`
	PartnerID       string    `json:"partner_id"`
	Fee             *moneyDTO `json:"fee,omitempty"`
	PickupAddress   string    `json:"pickup_address,omitempty"`
	DeliveryAddress string    `json:"delivery_address,omitempty"`
	Instructions    string    `json:"instructions,omitempty"`
}

type transitionRequest struct {
	To       string  `json:"to"`
	Notes    *string `json:"notes,omitempty"`
	ProofRef *string `json:"proof_ref,omitempty"`
}

type requestOrderRequest struct {
	OrderID     string    `json:"order_id"`
	PartnerID   string    `json:"partner_id"`
	ProposedFee *moneyDTO `json:"proposed_fee,omitempty"`
}

type acceptRequestRequest struct {
	PickupAddress   string `json:"pickup_address,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
	Instructions    string `json:"instructions,omitempty"`
}

type requestDTO struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	PartnerID   string    `json:"partner_id"`
	ProposedFee moneyDTO  `json:"proposed_fee"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type orderDTO struct {
	ID        string    `json:"id"`
	SellerID  string    `json:"seller_id"`
	Status    string    `json:"status"`
	Total     moneyDTO  `json:"total"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type matchedOrderDTO struct {
	Order      orderDTO `json:"order"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type matchResultDTO struct {
	Orders       []matchedOrderDTO `json:"orders"`
	Mode         string            `json:"mode"`
	TotalMatches int               `json:"total_matches"`
}
