package handlers

import (
	"fmt"

	"service-delivery/internal/domain"
)

func formatMinor(a int64) string {
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%d.%02d", sign, a/100, a%100)
}

func moneyToDTO(m domain.Money) moneyDTO {
	return moneyDTO{Amount: formatMinor(m.Amount), Currency: m.Currency}
}

func moneyFromDTO(d *moneyDTO) (*domain.Money, error) {
	if d == nil {
		return nil, nil
	}
	m, err := domain.ParseMoney(d.Amount, d.Currency)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func pointToDTO(p *domain.Point) *pointDTO {
	if p == nil {
		return nil
	}
	return &pointDTO{Lat: p.Lat, Lon: p.Lon}
}

func pointFromDTO(d *pointDTO) *domain.Point {
	if d == nil {
		return nil
	}
	return &domain.Point{Lat: d.Lat, Lon: d.Lon}
}

func pricingToDTO(p domain.PricingModel) pricingDTO {
	out := pricingDTO{Kind: string(p.Kind), PercentBP: p.PercentBP}
	if !p.BaseFee.IsZero() || p.BaseFee.Currency != "" {
		fee := moneyToDTO(p.BaseFee)
		out.BaseFee = &fee
	}
	if !p.PerKmRate.IsZero() || p.PerKmRate.Currency != "" {
		rate := moneyToDTO(p.PerKmRate)
		out.PerKmRate = &rate
	}
	return out
}

func pricingFromDTO(d *pricingDTO) (domain.PricingModel, error) {
	if d == nil {
		return domain.PricingModel{}, nil
	}
	out := domain.PricingModel{Kind: domain.PricingKind(d.Kind), PercentBP: d.PercentBP}
	if fee, err := moneyFromDTO(d.BaseFee); err != nil {
		return domain.PricingModel{}, err
	} else if fee != nil {
		out.BaseFee = *fee
	}
	if rate, err := moneyFromDTO(d.PerKmRate); err != nil {
		return domain.PricingModel{}, err
	} else if rate != nil {
		out.PerKmRate = *rate
	}
	return out, nil
}

func partnerToDTO(p domain.DeliveryPartner) partnerDTO {
	return partnerDTO{
		ID:                   p.ID.String(),
		UserID:               p.UserID.String(),
		Name:                 p.Name,
		Phone:                p.Phone,
		IsVerified:           p.IsVerified,
		IsActive:             p.IsActive,
		Location:             pointToDTO(p.Location),
		ServiceRadiusKm:      p.ServiceRadiusKm,
		ServiceCities:        p.ServiceCities,
		Pricing:              pricingToDTO(p.Pricing),
		CurrentActiveOrders:  p.CurrentActiveOrders,
		MaxDailyCapacity:     p.MaxDailyCapacity,
		TotalDeliveries:      p.TotalDeliveries,
		SuccessfulDeliveries: p.SuccessfulDeliveries,
	}
}

func partnersToDTO(list []domain.DeliveryPartner) []partnerDTO {
	out := make([]partnerDTO, 0, len(list))
	for _, p := range list {
		out = append(out, partnerToDTO(p))
	}
	return out
}

func assignmentToDTO(a domain.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:              a.ID.String(),
		OrderID:         a.OrderID.String(),
		PartnerID:       a.PartnerID.String(),
		Status:          string(a.Status),
		Fee:             moneyToDTO(a.Fee),
		DistanceKm:      a.DistanceKm,
		PickupAddress:   a.PickupAddress,
		DeliveryAddress: a.DeliveryAddress,
		Instructions:    a.Instructions,
		AcceptedAt:      a.AcceptedAt,
		PickedUpAt:      a.PickedUpAt,
		InTransitAt:     a.InTransitAt,
		DeliveredAt:     a.DeliveredAt,
		Notes:           a.Notes,
		ProofRef:        a.ProofRef,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func assignmentsToDTO(list []domain.Assignment) []assignmentDTO {
	out := make([]assignmentDTO, 0, len(list))
	for _, a := range list {
		out = append(out, assignmentToDTO(a))
	}
	return out
}

func requestToDTO(r domain.DeliveryRequest) requestDTO {
	return requestDTO{
		ID:          r.ID.String(),
		OrderID:     r.OrderID.String(),
		PartnerID:   r.PartnerID.String(),
		ProposedFee: moneyToDTO(r.ProposedFee),
		Status:      string(r.Status),
		ExpiresAt:   r.ExpiresAt,
		CreatedAt:   r.CreatedAt,
	}
}

func requestsToDTO(list []domain.DeliveryRequest) []requestDTO {
	out := make([]requestDTO, 0, len(list))
	for _, r := range list {
		out = append(out, requestToDTO(r))
	}
	return out
}

func orderToDTO(o domain.Order) orderDTO {
	return orderDTO{
		ID:        o.ID.String(),
		SellerID:  o.SellerID.String(),
		Status:    string(o.Status),
		Total:     moneyToDTO(o.Total),
		City:      o.City,
		State:     o.State,
		Country:   o.Country,
		CreatedAt: o.CreatedAt,
	}
}

func matchResultToDTO(res domain.MatchResult) matchResultDTO {
	orders := make([]matchedOrderDTO, 0, len(res.Orders))
	for _, m := range res.Orders {
		orders = append(orders, matchedOrderDTO{
			Order:      orderToDTO(m.Order),
			DistanceKm: m.DistanceKm,
		})
	}
	return matchResultDTO{
		Orders:       orders,
		Mode:         string(res.Mode),
		TotalMatches: res.TotalMatches,
	}
}
