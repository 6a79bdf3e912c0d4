package domain

// StatsPeriod selects the time window for partner statistics.
type StatsPeriod string

// Supported statistics periods.
const (
	PeriodToday StatsPeriod = "today"
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
	PeriodAll   StatsPeriod = "all"
)

// Valid checks if the StatsPeriod is a known window.
func (p StatsPeriod) Valid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return true
	default:
		return false
	}
}

// FeeAggregate is the summation over delivered assignments in a window.
// Amounts are in minor units.
type FeeAggregate struct {
	Count    int64
	SumMinor int64
	AvgMinor int64
	MinMinor int64
	MaxMinor int64
	Currency string
}

// PartnerStatistics is a partner's dashboard view. SuccessRate is 0 when the
// partner has no deliveries yet, never a division fault.
type PartnerStatistics struct {
	TotalDeliveries      int64   `json:"total_deliveries"`
	SuccessfulDeliveries int64   `json:"successful_deliveries"`
	SuccessRate          float64 `json:"success_rate"`
	Period               string  `json:"period"`
	PeriodDeliveries     int64   `json:"period_deliveries"`
	TotalEarningsMinor   int64   `json:"total_earnings_minor"`
	AverageFeeMinor      int64   `json:"average_fee_minor"`
	MinFeeMinor          int64   `json:"min_fee_minor"`
	MaxFeeMinor          int64   `json:"max_fee_minor"`
	Currency             string  `json:"currency"`
}
