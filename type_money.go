package contract

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount of minor currency units (cents for EUR) in a currency.
type Money struct {
	minor int64
	cur   string
}

// M returns minor units of currency as Money.
func M(minor int64, currency string) Money {
	return Money{minor: minor, cur: currency}
}

// FromDecimal converts an amount in major units into Money. It fails if the
// amount has more digits than the currency fraction allows, or if the
// currency is unknown.
func FromDecimal(amount decimal.Decimal, currency string) (Money, error) {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return Money{}, fmt.Errorf("unknown currency %q", currency)
	}
	minor := amount.Shift(int32(cur.Fraction))
	if !minor.Equal(minor.Truncate(0)) {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimals in %s", ErrInvalidAmount, amount, cur.Fraction, currency)
	}
	if minor.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || minor.LessThan(decimal.NewFromInt(-math.MaxInt64)) {
		return Money{}, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, amount)
	}
	return Money{minor: minor.IntPart(), cur: currency}, nil
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 { return m.minor }

// Currency returns the ISO code of the currency.
func (m Money) Currency() string { return m.cur }

// fraction returns the number of decimals of the currency, 2 when unknown.
func (m Money) fraction() int32 {
	if cur := money.GetCurrency(m.cur); cur != nil {
		return int32(cur.Fraction)
	}
	return 2
}

// Decimal returns the exact amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -m.fraction())
}

// String returns the amount formatted for display, like "€1.00".
func (m Money) String() string {
	return money.New(m.minor, m.cur).Display()
}

// SignedString is like String but always carries a sign, "-" for zero.
func (m Money) SignedString() string {
	switch {
	case m.minor == 0:
		return "-"
	case m.minor > 0:
		return "+" + m.String()
	}
	return m.String()
}
