package numerics

import "fmt"

// Money is a fixed-point value denominated in a Currency. It shares Price's
// internal scaled-integer representation but additionally carries the
// currency it is denominated in, so that arithmetic across mismatched
// currencies fails loudly instead of silently mixing units.
type Money struct {
	amount   Price
	Currency Currency
}

// NewMoney builds a Money value from a human-scale integer-and-fraction pair
// at the currency's own precision.
func NewMoney(units int64, ccy Currency) Money {
	p, _ := NewPrice(units, ccy.Precision)
	return Money{amount: p, Currency: ccy}
}

// MoneyFromRaw constructs Money directly from internal scaled raw units.
func MoneyFromRaw(raw int64, ccy Currency) Money {
	return Money{amount: PriceFromRaw(raw, ccy.Precision), Currency: ccy}
}

// ZeroMoney returns a zero-valued Money in the given currency.
func ZeroMoney(ccy Currency) Money { return MoneyFromRaw(0, ccy) }

// Amount returns the underlying Price magnitude, without the currency code,
// for callers (e.g. event serialization) that carry the currency separately.
func (m Money) Amount() Price      { return m.amount }
func (m Money) Raw() int64         { return m.amount.Raw() }
func (m Money) AsFloat64() float64 { return m.amount.AsFloat64() }
func (m Money) IsZero() bool       { return m.amount.IsZero() }
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.Currency.Code)
}

// ErrCurrencyMismatch is raised when combining Money values in different
// currencies.
var ErrCurrencyMismatch = fmt.Errorf("numerics: currency mismatch")

// Add returns m + o; both operands must share a currency.
func (m Money) Add(o Money) (Money, error) {
	if m.Currency.Code != o.Currency.Code {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Add(o.amount), Currency: m.Currency}, nil
}

// Sub returns m - o; both operands must share a currency.
func (m Money) Sub(o Money) (Money, error) {
	if m.Currency.Code != o.Currency.Code {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Sub(o.amount), Currency: m.Currency}, nil
}

func (m Money) Neg() Money { return Money{amount: m.amount.Neg(), Currency: m.Currency} }

func (m Money) Cmp(o Money) int { return m.amount.Cmp(o.amount) }

// MoneyFromNotional builds Money from a quantity*price notional computed via
// Quantity.MulPrice, denominated in the quote currency of the instrument.
func MoneyFromNotional(qty Quantity, px Price, ccy Currency) Money {
	raw := qty.MulPrice(px)
	return MoneyFromRaw(scaleToPrecision(raw, ccy.Precision), ccy)
}

// scaleToPrecision re-truncates a 10^-9-scaled raw value down to the target
// precision's resolution so that the stored raw value always represents
// whole units of 10^-precision (matching how Price/Quantity store raw).
func scaleToPrecision(raw int64, precision uint8) int64 {
	unit := scaleFor(precision)
	return (raw / unit) * unit
}
