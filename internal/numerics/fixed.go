// Package numerics implements the fixed-precision decimal values the core
// trades and accounts in. Every arithmetic operation is backed by an int64
// scaled to a fixed internal resolution so that replaying the same event
// stream twice always produces bit-identical results.
package numerics

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// scaleExp is the internal resolution: every Price/Quantity is stored as an
// integer counting units of 10^-scaleExp, regardless of its reported
// precision. This matches the decimal raw/precision split the spec describes.
const scaleExp = 9

var pow10 [scaleExp + 1]int64

func init() {
	p := int64(1)
	for i := 0; i <= scaleExp; i++ {
		pow10[i] = p
		p *= 10
	}
}

// MaxPrecision is the highest per-instance precision a Price/Quantity/Money
// may carry.
const MaxPrecision = 9

func scaleFor(precision uint8) int64 {
	return pow10[scaleExp-precision]
}

// Price is a signed fixed-point value with per-instance precision.
type Price struct {
	raw       int64
	precision uint8
}

// NewPrice builds a Price from a human-scale integer-and-fraction pair, e.g.
// NewPrice(10025, 2) == 100.25.
func NewPrice(units int64, precision uint8) (Price, error) {
	if precision > MaxPrecision {
		return Price{}, fmt.Errorf("numerics: price precision %d exceeds max %d", precision, MaxPrecision)
	}
	return Price{raw: units * scaleFor(precision), precision: precision}, nil
}

// PriceFromRaw constructs a Price directly from its internal scaled
// representation; used by order book deltas that already carry raw ticks.
func PriceFromRaw(raw int64, precision uint8) Price {
	return Price{raw: raw, precision: precision}
}

// Raw returns the internal 10^-9-scaled integer representation.
func (p Price) Raw() int64 { return p.raw }

// Precision returns the value's reporting precision.
func (p Price) Precision() uint8 { return p.precision }

// AsFloat64 extracts a float64 approximation; reserved for mid-price/analytics
// use where the spec explicitly allows a one-digit precision increase and
// accepts float rounding. Never use on the hot matching path.
func (p Price) AsFloat64() float64 {
	return float64(p.raw) / float64(pow10[scaleExp])
}

func (p Price) String() string {
	return decimal.New(p.raw, -scaleExp).StringFixed(int32(p.precision))
}

// ParsePrice parses a decimal string into a Price of the given precision,
// the `from_dict` boundary conversion named in §6 of the spec.
func ParsePrice(s string, precision uint8) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("numerics: invalid price %q: %w", s, err)
	}
	raw := d.Mul(decimal.New(pow10[scaleExp], 0)).Round(0).IntPart()
	return Price{raw: raw, precision: precision}, nil
}

func maxPrecision(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

// Add returns a + b at the larger of the two operands' precision.
func (p Price) Add(o Price) Price {
	return Price{raw: p.raw + o.raw, precision: maxPrecision(p.precision, o.precision)}
}

// Sub returns a - b at the larger of the two operands' precision.
func (p Price) Sub(o Price) Price {
	return Price{raw: p.raw - o.raw, precision: maxPrecision(p.precision, o.precision)}
}

// Neg returns -a.
func (p Price) Neg() Price { return Price{raw: -p.raw, precision: p.precision} }

// Cmp returns -1, 0, or 1 comparing p to o.
func (p Price) Cmp(o Price) int {
	switch {
	case p.raw < o.raw:
		return -1
	case p.raw > o.raw:
		return 1
	default:
		return 0
	}
}

func (p Price) LessThan(o Price) bool    { return p.raw < o.raw }
func (p Price) GreaterThan(o Price) bool { return p.raw > o.raw }
func (p Price) Equal(o Price) bool       { return p.raw == o.raw }
func (p Price) IsZero() bool             { return p.raw == 0 }

// AddTicks shifts the price by n increments of 1 unit at its own precision;
// used to apply slippage ticks.
func (p Price) AddTicks(n int64) Price {
	return Price{raw: p.raw + n*scaleFor(p.precision), precision: p.precision}
}

// Quantity is an unsigned fixed-point value; arithmetic that would underflow
// below zero must raise rather than wrap, per §4.1.
type Quantity struct {
	raw       int64
	precision uint8
}

// ErrQuantityUnderflow is raised whenever a Quantity operation would produce
// a negative result.
var ErrQuantityUnderflow = fmt.Errorf("numerics: quantity underflow")

// NewQuantity builds a Quantity from a human-scale integer-and-fraction pair.
func NewQuantity(units int64, precision uint8) (Quantity, error) {
	if precision > MaxPrecision {
		return Quantity{}, fmt.Errorf("numerics: quantity precision %d exceeds max %d", precision, MaxPrecision)
	}
	if units < 0 {
		return Quantity{}, ErrQuantityUnderflow
	}
	return Quantity{raw: units * scaleFor(precision), precision: precision}, nil
}

// QuantityFromRaw constructs a Quantity directly from its internal scaled
// representation.
func QuantityFromRaw(raw int64, precision uint8) (Quantity, error) {
	if raw < 0 {
		return Quantity{}, ErrQuantityUnderflow
	}
	return Quantity{raw: raw, precision: precision}, nil
}

// ZeroQuantity returns a Quantity of value zero at the given precision.
func ZeroQuantity(precision uint8) Quantity { return Quantity{precision: precision} }

func (q Quantity) Raw() int64       { return q.raw }
func (q Quantity) Precision() uint8 { return q.precision }
func (q Quantity) IsZero() bool     { return q.raw == 0 }

func (q Quantity) AsFloat64() float64 {
	return float64(q.raw) / float64(pow10[scaleExp])
}

func (q Quantity) String() string {
	return decimal.New(q.raw, -scaleExp).StringFixed(int32(q.precision))
}

// ParseQuantity parses a decimal string into a Quantity of the given
// precision.
func ParseQuantity(s string, precision uint8) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("numerics: invalid quantity %q: %w", s, err)
	}
	if d.IsNegative() {
		return Quantity{}, ErrQuantityUnderflow
	}
	raw := d.Mul(decimal.New(pow10[scaleExp], 0)).Round(0).IntPart()
	return Quantity{raw: raw, precision: precision}, nil
}

// Add returns a + b.
func (q Quantity) Add(o Quantity) Quantity {
	return Quantity{raw: q.raw + o.raw, precision: maxPrecision(q.precision, o.precision)}
}

// Sub returns a - b, raising ErrQuantityUnderflow if the result is negative.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	raw := q.raw - o.raw
	if raw < 0 {
		return Quantity{}, ErrQuantityUnderflow
	}
	return Quantity{raw: raw, precision: maxPrecision(q.precision, o.precision)}, nil
}

// Min returns the lesser of two quantities.
func (q Quantity) Min(o Quantity) Quantity {
	if q.raw < o.raw {
		return q
	}
	return o
}

func (q Quantity) Cmp(o Quantity) int {
	switch {
	case q.raw < o.raw:
		return -1
	case q.raw > o.raw:
		return 1
	default:
		return 0
	}
}

func (q Quantity) LessThan(o Quantity) bool    { return q.raw < o.raw }
func (q Quantity) GreaterThan(o Quantity) bool { return q.raw > o.raw }
func (q Quantity) Equal(o Quantity) bool       { return q.raw == o.raw }

// MulPrice multiplies a quantity by a price, returning the notional raw
// units at 10^-9 resolution; callers round to Money via MoneyFromNotional
// or MoneyFromRaw. Uses
// math/big so size*price never overflows int64, while staying exact integer
// arithmetic (no floating point enters the hot path).
func (q Quantity) MulPrice(p Price) int64 {
	product := new(big.Int).Mul(big.NewInt(q.raw), big.NewInt(p.raw))
	product.Quo(product, big.NewInt(pow10[scaleExp]))
	return product.Int64()
}

// WeightedAvgPrice folds one more (qty, px) fill into a running average
// price, implementing §4.3.4's
// avg_px = (avg_px*filled_qty + last_px*last_qty) / (filled_qty+last_qty).
// newTotalQty must equal priorQty.Add(lastQty); it is passed in rather than
// recomputed so callers that already hold it don't pay for it twice.
func WeightedAvgPrice(priorQty Quantity, priorAvgPx Price, lastQty Quantity, lastPx Price, newTotalQty Quantity, precision uint8) Price {
	if newTotalQty.IsZero() {
		return PriceFromRaw(0, precision)
	}
	priorNotional := big.NewInt(priorQty.MulPrice(priorAvgPx))
	lastNotional := big.NewInt(lastQty.MulPrice(lastPx))
	total := new(big.Int).Add(priorNotional, lastNotional)
	total.Mul(total, big.NewInt(pow10[scaleExp]))
	total.Quo(total, big.NewInt(newTotalQty.Raw()))
	return PriceFromRaw(total.Int64(), precision)
}
