package domain

import (
	"fmt"
	"strconv"
	"strings"

	"service-delivery/internal/apperr"
)

// Money is a currency amount in integer minor units (e.g. cents).
// Fees and order totals never use floating point.
type Money struct {
	Amount   int64
	Currency string
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// Add returns the sum of two amounts. Currencies must match; the zero Money
// value adopts the other operand's currency.
func (m Money) Add(other Money) (Money, error) {
	switch {
	case m.Currency == "":
		return Money{Amount: m.Amount + other.Amount, Currency: other.Currency}, nil
	case other.Currency == "" || m.Currency == other.Currency:
		return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
	default:
		return Money{}, fmt.Errorf("currency mismatch %s vs %s: %w", m.Currency, other.Currency, apperr.Invalid)
	}
}

// String renders the amount as a decimal with two fraction digits.
func (m Money) String() string {
	sign := ""
	a := m.Amount
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, a/100, a%100, m.Currency)
}

// ParseAmount parses a decimal string into minor units. At most two fraction
// digits are accepted; anything non-numeric is rejected rather than coerced.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount: %w", apperr.Invalid)
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
		if frac == "" {
			return 0, fmt.Errorf("malformed amount %q: %w", s, apperr.Invalid)
		}
	}
	// Digits only past the optional leading sign; ParseInt alone would let a
	// second sign through in either part.
	if whole == "" || len(frac) > 2 || !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, fmt.Errorf("malformed amount %q: %w", s, apperr.Invalid)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", s, apperr.Invalid)
	}
	var f int64
	if frac != "00" {
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed amount %q: %w", s, apperr.Invalid)
		}
	}

	minor := w*100 + f
	if neg {
		minor = -minor
	}
	return minor, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseMoney parses a decimal string plus currency into Money.
func ParseMoney(amount, currency string) (Money, error) {
	minor, err := ParseAmount(amount)
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: minor, Currency: strings.ToUpper(strings.TrimSpace(currency))}, nil
}
