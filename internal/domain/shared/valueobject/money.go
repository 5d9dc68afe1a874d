package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNegativeResult is returned when a subtraction would produce a negative
// amount. Callers decide whether that is an insufficient-balance rejection;
// Money itself never clamps.
var ErrNegativeResult = errors.New("monetary operation would produce a negative result")

// ErrCurrencyMismatch is returned when two amounts in different currencies
// are combined.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is a value object representing a monetary amount in a specific
// currency. It is immutable - all operations return new Money instances.
// Amounts are exact decimals; binary floating point is never used.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a new Money with the specified amount and currency code
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString creates Money from a decimal string representation
func NewMoneyFromString(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyFromMinorUnits creates Money from an integer count of minor units
// (e.g. cents) at the given currency precision.
func NewMoneyFromMinorUnits(units int64, precision int32, currency string) (Money, error) {
	return NewMoney(decimal.New(units, -precision), currency)
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() string {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is strictly positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts.
// Returns ErrCurrencyMismatch if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns a new Money with the difference of both amounts.
// Returns ErrNegativeResult when the result would drop below zero so that
// callers can reject the operation atomically instead of clamping.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, ErrNegativeResult
	}
	return Money{amount: result, currency: m.currency}, nil
}

// MulRate multiplies the amount by a fractional rate (e.g. 0.02 for 2%) and
// rounds half-up to the currency's minor-unit precision. The same rule is
// applied everywhere a rate is taken so repeated recomputation cannot drift.
func (m Money) MulRate(rate decimal.Decimal, precision int32) Money {
	return Money{
		amount:   m.amount.Mul(rate).Round(precision),
		currency: m.currency,
	}
}

// Equal reports whether both amounts and currencies are equal
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan reports whether m is strictly less than other.
// Comparing different currencies returns ErrCurrencyMismatch.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// GreaterThan reports whether m is strictly greater than other
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// String returns a human-readable representation like "50.00 USD"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}
