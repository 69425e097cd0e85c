// Package instrument defines the tradable-instrument value type the rest of
// the core reads numeric facets from (§3 "Instrument"), and the commission
// model abstraction instruments carry.
package instrument

import (
	"fmt"

	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// ID uniquely identifies an instrument by (symbol, venue).
type ID struct {
	Symbol string
	Venue  string
}

func (id ID) String() string { return fmt.Sprintf("%s.%s", id.Symbol, id.Venue) }

// LiquiditySide distinguishes the maker/taker side of a fill.
type LiquiditySide string

const (
	LiquidityNone  LiquiditySide = "NONE"
	LiquidityMaker LiquiditySide = "MAKER"
	LiquidityTaker LiquiditySide = "TAKER"
)

// CommissionModel computes the commission owed for a fill, injected at
// exchange construction per the Design Notes' "strategy-object interfaces"
// guidance.
type CommissionModel interface {
	Commission(inst *Instrument, qty numerics.Quantity, px numerics.Price, side LiquiditySide) numerics.Money
}

// Instrument is immutable once registered; the matching engine and order
// book only ever read its numeric facets (precision, multiplier, lot size).
type Instrument struct {
	ID             ID
	PricePrecision uint8
	SizePrecision  uint8
	Multiplier     numerics.Quantity
	LotSize        numerics.Quantity
	QuoteCurrency  numerics.Currency
	MarginInit     numerics.Price // fraction expressed as a Price-typed ratio, e.g. 0.05 = 5%
	MarginMaint    numerics.Price
	Commission     CommissionModel
}

// MinPriceIncrement returns the smallest representable price tick for this
// instrument, used to compute slippage ticks and tie-break depth walks.
func (i *Instrument) MinPriceIncrement() numerics.Price {
	p, _ := numerics.NewPrice(1, i.PricePrecision)
	return p
}

// BpsCommissionModel applies symmetric maker/taker basis-point rates to the
// fill notional, the simplest concrete CommissionModel shipped with the core.
type BpsCommissionModel struct {
	MakerBps int64
	TakerBps int64
}

// Commission implements CommissionModel.
func (m BpsCommissionModel) Commission(inst *Instrument, qty numerics.Quantity, px numerics.Price, side LiquiditySide) numerics.Money {
	notional := numerics.MoneyFromNotional(qty, px, inst.QuoteCurrency)
	bps := m.TakerBps
	if side == LiquidityMaker {
		bps = m.MakerBps
	}
	raw := notional.Raw() * bps / 10_000
	return numerics.MoneyFromRaw(raw, inst.QuoteCurrency)
}
