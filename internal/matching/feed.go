package matching

import (
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/marketdata"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// syncRefFromBook refreshes the BID/ASK reference prices from the book's
// current top of book, so TriggerBid/TriggerAsk/TriggerMid stay correct for
// L2/L3 books that are only ever fed deltas, never quotes.
func (e *Engine) syncRefFromBook() {
	if bid, ok := e.Book.BestBid(); ok {
		e.ref.bid = bid.Price
		e.ref.set = true
	}
	if ask, ok := e.Book.BestAsk(); ok {
		e.ref.ask = ask.Price
		e.ref.set = true
	}
}

// runMatchLoop is the per-event entry to match-loop steps 1-3 (§4.3.3):
// recompute trailing triggers and promote newly-triggered stops, expire
// anything past its GTD deadline, then fill any resting LIMIT order that
// crosses the opposing top of book now that market data has moved.
func (e *Engine) runMatchLoop(now int64) {
	e.now = now
	e.evaluateStopsAndTrailing(now)
	e.evaluateExpiry(now)
	e.matchRestingAgainstBook(now)
}

// matchRestingAgainstBook is match-loop step 3 (§4.3.3 step 3: "for each
// resting limit order in priority order whose price crosses the current
// opposing top-of-book ... apply a single fill event"). It walks each
// side's resting queue front-to-back, stopping as soon as the
// highest-priority remaining order no longer crosses - nothing behind it
// would cross either, since the queue is price-ordered.
func (e *Engine) matchRestingAgainstBook(now int64) {
	for _, side := range [...]orders.Side{orders.SideBuy, orders.SideSell} {
		queue := e.sideOf(side)
		bookSide := bookSideOf(side)
		for {
			entry := queue.front()
			if entry == nil {
				break
			}
			o := entry.order
			top, ok := e.opposingBookSide(side)
			if !ok || !crossesLimit(side, top.Price, &o.Price) {
				break
			}
			qty := top.Size.Min(o.LeavesQty())
			if qty.IsZero() {
				break
			}
			adj := e.fillModel.AdjustFill(instrument.LiquidityMaker, top.Price, qty)
			if adj.Missed {
				// A missed fill still leaves the order at the front of its
				// queue, but re-evaluating it against the same unchanged
				// top of book forever would spin; wait for the next match
				// loop invocation (next market-data event) to retry.
				break
			}
			fillQty := adj.Qty.Min(o.LeavesQty())
			if fillQty.IsZero() {
				break
			}
			e.Book.ConsumeLiquidity(bookSide, top.Price, fillQty)
			if err := e.applyFill(o, adj.Px, fillQty, now, instrument.LiquidityMaker); err != nil {
				return
			}
		}
	}
}

// OnQuote applies a top-of-book quote to an L1_TBBO book and refreshes the
// BID/ASK reference prices (and so MID) triggers read (§4.3.1, §4.2); the
// LAST reference is left unchanged.
func (e *Engine) OnQuote(q marketdata.QuoteTick, now int64) {
	e.Book.ApplyQuote(q)
	e.ref.bid = q.BidPrice
	e.ref.ask = q.AskPrice
	e.ref.set = true
	e.runMatchLoop(now)
}

// OnTrade updates the LAST reference price from an executed trade print.
// Historical trade batches (is_historical=True) are treated identically to
// live prints: both feed the reference price a resting stop's trigger
// compares against, since the spec draws no distinction in its trigger rules
// once a tick has reached the engine (Open Question, resolved by treating
// "historical" purely as a replay-provenance tag, not a different code path).
func (e *Engine) OnTrade(t marketdata.TradeTick, now int64) {
	e.ref.last = t.Price
	e.ref.set = true
	e.runMatchLoop(now)
}

// OnBookDelta applies a single book mutation and re-evaluates triggers.
func (e *Engine) OnBookDelta(d marketdata.OrderBookDelta, now int64) {
	e.Book.ApplyDelta(d)
	e.syncRefFromBook()
	e.runMatchLoop(now)
}

// OnBookDeltas applies an ordered batch of deltas as a single atomic update
// before re-evaluating triggers once, rather than once per delta.
func (e *Engine) OnBookDeltas(ds []marketdata.OrderBookDelta, now int64) {
	e.Book.ApplyDeltas(ds)
	e.syncRefFromBook()
	e.runMatchLoop(now)
}

// OnBookSnapshot replaces the book wholesale and re-evaluates triggers.
func (e *Engine) OnBookSnapshot(snap marketdata.OrderBookSnapshot, now int64) {
	e.Book.ApplySnapshot(snap)
	e.syncRefFromBook()
	e.runMatchLoop(now)
}

// OnBar drives stop/trailing triggering through a bar's synthetic touch
// sequence (§4.3.7): open -> low -> high -> close for a bearish bar (close
// below open), open -> high -> low -> close for a bullish one, so a
// stop that would have triggered intrabar fires even though only OHLC
// resolution data is available.
func (e *Engine) OnBar(b marketdata.Bar, now int64) {
	var sequence []numerics.Price
	if b.IsBullish() {
		sequence = []numerics.Price{b.Open, b.High, b.Low, b.Close}
	} else {
		sequence = []numerics.Price{b.Open, b.Low, b.High, b.Close}
	}
	for _, px := range sequence {
		e.ref.last = px
		e.ref.set = true
		e.runMatchLoop(now)
	}
}
