// Package account implements the cash/margin account and the positions it
// carries (§3 "Account"/"Position", §4.5), generalized from
// internal/trading/positions/manager.go's float64 UpdatePosition into the
// fixed-point numerics this core trades in.
package account

import (
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// Side is a position's directional state.
type Side string

const (
	SideFlat  Side = "FLAT"
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Position is one instrument's net exposure under one position_id. It is
// created on first fill and never deleted on close, remaining queryable at
// FLAT (§3 "Position"; §4.5 "Position lifecycle").
type Position struct {
	ID                 string
	InstrumentID       instrument.ID
	Side               Side
	NetQty             numerics.Quantity // magnitude only; Side carries direction
	AvgOpenPx          numerics.Price
	RealizedPnL        numerics.Money
	ContributingTrades []string
	OpenedAtNs         int64
	ClosedAtNs         int64
}

func sideFromSignedQty(raw int64) Side {
	switch {
	case raw > 0:
		return SideLong
	case raw < 0:
		return SideShort
	default:
		return SideFlat
	}
}

// signed returns net_qty with SHORT negated, the one place this package
// reasons about signed exposure; Position.NetQty itself stays unsigned
// since numerics.Quantity cannot hold a sign.
func (p *Position) signed() int64 {
	if p.Side == SideShort {
		return -p.NetQty.Raw()
	}
	return p.NetQty.Raw()
}

// ApplyFill folds one fill into the position per §4.5: same-direction fills
// extend the position and roll the average open price forward; opposite-
// direction fills realize PnL on the closed portion and, if the fill
// exceeds current net exposure, flip the remaining quantity into a fresh
// opening leg at the fill price (`FLAT -> LONG|SHORT -> FLAT` lifecycle).
func (p *Position) ApplyFill(fillSide Side, qty numerics.Quantity, px numerics.Price, tradeID string, ccy numerics.Currency, nowNs int64) {
	p.ContributingTrades = append(p.ContributingTrades, tradeID)

	fillSigned := qty.Raw()
	if fillSide == SideShort {
		fillSigned = -fillSigned
	}

	priorSigned := p.signed()
	newSigned := priorSigned + fillSigned

	sameDirection := priorSigned == 0 || (priorSigned > 0) == (fillSigned > 0)

	switch {
	case priorSigned == 0:
		p.OpenedAtNs = nowNs
		p.AvgOpenPx = px
	case sameDirection:
		p.AvgOpenPx = numerics.WeightedAvgPrice(p.NetQty, p.AvgOpenPx, qty, px, p.NetQty.Add(qty), px.Precision())
	default:
		closingQty := qty.Min(p.NetQty)
		pnl := realizedPnL(p.Side, closingQty, p.AvgOpenPx, px, ccy)
		p.RealizedPnL, _ = p.RealizedPnL.Add(pnl)

		if qty.GreaterThan(p.NetQty) {
			// Fill exceeds current net exposure: the remainder opens a fresh
			// position in the opposite direction at the fill price.
			remaining, _ := qty.Sub(p.NetQty)
			p.AvgOpenPx = px
			p.NetQty = remaining
			p.OpenedAtNs = nowNs
			p.Side = sideFromSignedQty(fillSigned)
			p.syncTerminal(nowNs)
			return
		}
	}

	p.NetQty, _ = numerics.QuantityFromRaw(abs64(newSigned), p.NetQty.Precision())
	p.Side = sideFromSignedQty(newSigned)
	p.syncTerminal(nowNs)
}

func (p *Position) syncTerminal(nowNs int64) {
	if p.Side == SideFlat {
		p.ClosedAtNs = nowNs
	} else {
		p.ClosedAtNs = 0
	}
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// realizedPnL computes the PnL realized by closing `qty` of a position held
// at avgOpenPx against an exit fill at exitPx: LONG profits when exitPx
// exceeds avgOpenPx, SHORT profits the reverse.
func realizedPnL(side Side, qty numerics.Quantity, avgOpenPx, exitPx numerics.Price, ccy numerics.Currency) numerics.Money {
	delta := exitPx.Sub(avgOpenPx)
	if side == SideShort {
		delta = avgOpenPx.Sub(exitPx)
	}
	raw := qty.MulPrice(delta)
	return numerics.MoneyFromRaw(raw, ccy)
}

// IsFlat reports whether the position currently carries no exposure.
func (p *Position) IsFlat() bool { return p.Side == SideFlat }
