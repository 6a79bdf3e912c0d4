// Package pricing computes delivery fees from a partner's pricing model and
// validates partner-proposed fees against the calculated reference.
package pricing

import (
	"fmt"
	"math"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
)

// Calculator derives fees and enforces the deviation band around them.
type Calculator struct {
	maxDeviationPct float64
}

// NewCalculator creates a Calculator. The deviation band comes from
// configuration, not from partner input.
func NewCalculator(maxDeviationPct float64) *Calculator {
	if maxDeviationPct < 0 {
		maxDeviationPct = 0
	}
	return &Calculator{maxDeviationPct: maxDeviationPct}
}

// Fee computes the delivery fee for a distance, order value and pricing
// model. Unset rates contribute zero; the result is never negative.
func (c *Calculator) Fee(distanceKm float64, orderValue domain.Money, m domain.PricingModel) (domain.Money, error) {
	if distanceKm < 0 {
		return domain.Money{}, fmt.Errorf("negative distance %v: %w", distanceKm, apperr.Invalid)
	}
	if !m.Kind.Valid() {
		return domain.Money{}, fmt.Errorf("unknown pricing model %q: %w", m.Kind, apperr.Invalid)
	}

	currency := orderValue.Currency
	if currency == "" {
		currency = m.BaseFee.Currency
	}

	var minor int64
	switch m.Kind {
	case domain.PricingFlat:
		minor = m.BaseFee.Amount
	case domain.PricingPerKm:
		minor = perKmComponent(m.PerKmRate.Amount, distanceKm)
	case domain.PricingPercentage:
		minor = percentComponent(orderValue.Amount, m.PercentBP)
	case domain.PricingHybrid:
		minor = m.BaseFee.Amount +
			perKmComponent(m.PerKmRate.Amount, distanceKm) +
			percentComponent(orderValue.Amount, m.PercentBP)
	}

	if minor < 0 {
		minor = 0
	}
	return domain.Money{Amount: minor, Currency: currency}, nil
}

// ValidateProposed accepts a partner-proposed fee inside the configured
// deviation band around calculated; outside the band it returns a
// DeviationError carrying the measured deviation percentage.
func (c *Calculator) ValidateProposed(proposed, calculated domain.Money) error {
	if proposed.Amount < 0 {
		return fmt.Errorf("negative fee: %w", apperr.Invalid)
	}

	// with a zero reference fee any positive proposal is unbounded deviation
	if calculated.Amount == 0 {
		if proposed.Amount == 0 {
			return nil
		}
		return &apperr.DeviationError{
			Proposed:     proposed.Amount,
			Calculated:   0,
			DeviationPct: math.Inf(1),
			MaxPct:       c.maxDeviationPct,
		}
	}

	diff := proposed.Amount - calculated.Amount
	if diff < 0 {
		diff = -diff
	}
	deviation := float64(diff) / float64(calculated.Amount) * 100

	if deviation > c.maxDeviationPct {
		return &apperr.DeviationError{
			Proposed:     proposed.Amount,
			Calculated:   calculated.Amount,
			DeviationPct: deviation,
			MaxPct:       c.maxDeviationPct,
		}
	}
	return nil
}

// perKmComponent rounds rate*distance to the nearest minor unit.
func perKmComponent(ratePerKm int64, distanceKm float64) int64 {
	return int64(math.Round(float64(ratePerKm) * distanceKm))
}

// percentComponent applies basis points to the order value.
func percentComponent(orderMinor, bp int64) int64 {
	return int64(math.Round(float64(orderMinor) * float64(bp) / 10_000))
}
