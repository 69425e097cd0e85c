// Package matching implements the per-instrument matching engine (§4.3):
// resting-order price/time priority, triggering/expiry, fill generation
// against book liquidity, and OCO/OTO/OUO contingency propagation.
package matching

import (
	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// EventSink receives every lifecycle event the engine emits; the simulated
// exchange wires this to the account (for fills) and to whatever collects
// the outbound event stream. It is the abstract stand-in for "the message
// bus wire layer" (§1 external collaborators).
type EventSink interface {
	Publish(ev events.Event)
}

// IDGenerator assigns venue-side identifiers deterministically from the
// exchange's (seed, counter) state (§4.4 "Identifier generation").
type IDGenerator interface {
	NextVenueOrderID(id instrument.ID) string
	NextTradeID() string
}

// PositionResolver resolves the venue_position_id a fill settles into,
// per §4.3.4: fresh per order under HEDGING, derived from
// (instrument, strategy) under NETTING. Implemented by the account/exchange
// layer, which is the sole owner of OMS-type bookkeeping.
type PositionResolver interface {
	ResolvePositionID(clientOrderID string, instrumentID instrument.ID, strategyID string) string
}

// FillAdjustment is what a FillModel may do to a candidate (price, qty) pair
// before it becomes a real fill: pass it through unchanged, shrink it
// (partial slip), or veto it entirely (latency-induced miss).
type FillAdjustment struct {
	Qty     numerics.Quantity
	Px      numerics.Price
	Missed  bool // true: this level's liquidity was not actually available
}

// FillModel may perturb a candidate fill, standing in for the exchange's
// random-miss / slippage simulation (§4.3.4, Design Notes "Randomness").
type FillModel interface {
	AdjustFill(side instrument.LiquiditySide, candidatePx numerics.Price, candidateQty numerics.Quantity) FillAdjustment
	// ResidualPolicy reports how a MARKET order's quantity left over after
	// the book is exhausted should be handled (§4.3.3 step 4): phantom=true
	// prints the residual at the engine's LAST reference price (the latest
	// trade print or bar touch) shifted by slippageTicks, not at the price of
	// the last level the order consumed; phantom=false rejects the residual
	// instead.
	ResidualPolicy() (phantom bool, slippageTicks int64)
}
