package matching

import (
	"github.com/jclangner/nautilus-trader/internal/book"
	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// matchTakerLimit drains a marketable LIMIT (or triggered STOP_LIMIT) order
// against the opposing client resting queue and the opposing book up to its
// own price, then applies the remaining-quantity handling its
// time-in-force calls for (§4.3.3 steps 3-5).
func (e *Engine) matchTakerLimit(o *orders.Order, now int64) error {
	limit := o.Price
	if err := e.matchOpposing(o, &limit, now); err != nil {
		return err
	}
	if o.Status.IsTerminal() || o.LeavesQty().IsZero() {
		return nil
	}
	return e.settleResidual(o, now)
}

// matchTakerMarket drains a MARKET (or triggered STOP_MARKET/MARKET_TO_LIMIT)
// order against the opposing client resting queue and the opposing book
// without a price bound, then applies the exchange's residual policy for
// whatever neither source could satisfy (§4.3.3 step 4).
func (e *Engine) matchTakerMarket(o *orders.Order, now int64) error {
	if err := e.matchOpposing(o, nil, now); err != nil {
		return err
	}
	if o.Status.IsTerminal() || o.LeavesQty().IsZero() {
		return nil
	}

	// MARKET_TO_LIMIT rests its exhausted remainder as a LIMIT at the last
	// traded price rather than phantom-filling or rejecting it.
	if o.Kind == orders.KindMarketToLimit {
		last, ok := e.ref.forTrigger(orders.TriggerLast, o.Price.Precision())
		if ok {
			o.Price = last
		}
		e.rest(o, now)
		e.registerContingency(o)
		return nil
	}

	phantom, slipTicks := e.fillModel.ResidualPolicy()
	last, haveRef := e.ref.forTrigger(orders.TriggerLast, o.Price.Precision())
	if phantom && haveRef {
		px := last.AddTicks(slipTicks)
		if o.Side == orders.SideSell {
			px = last.AddTicks(-slipTicks)
		}
		return e.applyFill(o, px, o.LeavesQty(), now, instrument.LiquidityNone)
	}
	return e.settleResidual(o, now)
}

// settleResidual disposes of a taker order's unfilled remainder once no more
// book depth is available: a wholly-unfilled order, and the remainder of an
// order without a limit price (MARKET/STOP_MARKET), is rejected; a
// partially-filled IOC/FOK order has its remainder canceled; any other
// partially-filled limit order rests.
func (e *Engine) settleResidual(o *orders.Order, now int64) error {
	if o.FilledQty.IsZero() || !o.Kind.HasPrice() {
		return e.reject(o, now, "no liquidity available to fill order")
	}
	if o.TimeInForce == orders.TIFIOC || o.TimeInForce == orders.TIFFOK {
		return e.cancelResidual(o, now, "unfilled remainder canceled: no further liquidity")
	}
	e.rest(o, now)
	e.registerContingency(o)
	return nil
}

func (e *Engine) cancelResidual(o *orders.Order, now int64, reason string) error {
	e.removeFromAllQueues(o.ClientOrderID)
	if err := e.transition(o, orders.StatusCanceled, events.OrderCanceled{
		Base:         events.NewBase(o.ClientOrderID, now, now),
		VenueOrderID: o.VenueOrderID,
		Reason:       reason,
	}); err != nil {
		return err
	}
	e.onTerminal(o, now)
	return nil
}

// availableOpposingQty sums the quantity o could cross against right now,
// both the opposing client resting queue (in priority order, stopping at
// the first entry whose price no longer crosses) and the opposing book's
// depth up to MaxMatchDepth, for FOK's all-or-nothing pre-check (§4.3.3
// step 3). The two sources are disjoint liquidity pools, so their
// quantities simply add.
func (e *Engine) availableOpposingQty(o *orders.Order, limit *numerics.Price) numerics.Quantity {
	var total numerics.Quantity
	for _, entry := range e.sideOf(oppositeSide(o.Side)).all() {
		if !crossesLimit(o.Side, entry.order.Price, limit) {
			break
		}
		total = total.Add(entry.order.LeavesQty())
	}
	bookSide := bookSideOf(o.Side)
	for _, lvl := range e.Book.SimulateFillsBounded(bookSide, o.LeavesQty(), e.MaxMatchDepth, limit) {
		total = total.Add(lvl.Qty)
	}
	return total
}

// matchOpposing walks whichever opposing liquidity source currently has the
// better price for o - the client resting queue on the opposite side, or
// the pre-computed book-depth plan - filling against one order/level at a
// time until o is done, its limit no longer crosses, or both sources run
// dry (§4.3.2 price priority, §4.3.3 steps 3-5). limit is nil for MARKET
// orders and the order's own price for LIMIT takers. The book plan is
// captured once up front (as SimulateFillsBounded always has): a level the
// fill model misses is skipped for this order without being removed from
// the book, exactly as a single-source drain would.
func (e *Engine) matchOpposing(o *orders.Order, limit *numerics.Price, now int64) error {
	if o.TimeInForce == orders.TIFFOK {
		if e.availableOpposingQty(o, limit).LessThan(o.LeavesQty()) {
			return e.reject(o, now, "fok: insufficient liquidity to fill order in full")
		}
	}

	opposite := e.sideOf(oppositeSide(o.Side))
	bookSide := bookSideOf(o.Side)
	plan := e.Book.SimulateFillsBounded(bookSide, o.LeavesQty(), e.MaxMatchDepth, limit)
	planIdx := 0

	for !o.LeavesQty().IsZero() {
		maker := opposite.front()
		makerCrosses := maker != nil && crossesLimit(o.Side, maker.order.Price, limit)

		var lvl book.FillLevel
		haveLevel := planIdx < len(plan)
		if haveLevel {
			lvl = plan[planIdx]
		}

		if !makerCrosses && !haveLevel {
			return nil
		}

		useMaker := makerCrosses && (!haveLevel || betterOrEqualPrice(opposite.side, maker.order.Price, lvl.Price))
		if useMaker {
			qty := maker.order.LeavesQty().Min(o.LeavesQty())
			if err := e.fillRestingPair(o, maker.order, maker.order.Price, qty, now); err != nil {
				return err
			}
			continue
		}

		planIdx++
		adj := e.fillModel.AdjustFill(instrument.LiquidityTaker, lvl.Price, lvl.Qty)
		if adj.Missed {
			continue
		}
		qty := adj.Qty.Min(o.LeavesQty())
		if qty.IsZero() {
			continue
		}
		e.Book.ConsumeLiquidity(bookSide, lvl.Price, qty)
		if err := e.applyFill(o, adj.Px, qty, now, instrument.LiquidityTaker); err != nil {
			return err
		}
	}
	return nil
}

// betterOrEqualPrice reports whether price a is at least as good as b for a
// restingSide of the given side's priority rule (§4.3.2): lower wins on the
// ask/SELL side, higher wins on the bid/BUY side.
func betterOrEqualPrice(side orders.Side, a, b numerics.Price) bool {
	if a.Equal(b) {
		return true
	}
	if side == orders.SideBuy {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

// fillRestingPair settles one fill between a newly-arrived taker order and
// the resting maker order at the front of the opposing queue, entirely
// independent of the market-data book (client-vs-client crossing, §4.3.2).
func (e *Engine) fillRestingPair(taker, maker *orders.Order, px numerics.Price, qty numerics.Quantity, now int64) error {
	if err := e.applyFill(maker, px, qty, now, instrument.LiquidityMaker); err != nil {
		return err
	}
	return e.applyFill(taker, px, qty, now, instrument.LiquidityTaker)
}

// applyFill settles one fill: commission, position resolution, the
// OrderFilled event, the order's own FSM update, and OTO/OCO contingency
// propagation (§4.3.4).
func (e *Engine) applyFill(o *orders.Order, px numerics.Price, qty numerics.Quantity, now int64, liquidity instrument.LiquiditySide) error {
	tradeID := e.ids.NextTradeID()
	positionID := e.positions.ResolvePositionID(o.ClientOrderID, o.InstrumentID, o.StrategyID)
	commission := e.Instrument.Commission.Commission(e.Instrument, qty, px, liquidity)

	newFilled := o.FilledQty.Add(qty)
	// Same one-extra-digit avg_px precision as orders.Order.ApplyFill.
	avgPrecision := px.Precision() + 1
	if avgPrecision > numerics.MaxPrecision {
		avgPrecision = numerics.MaxPrecision
	}
	newAvg := numerics.WeightedAvgPrice(o.FilledQty, o.AvgPx, qty, px, newFilled, avgPrecision)

	ev := events.OrderFilled{
		Base:            events.NewBase(o.ClientOrderID, now, now),
		TradeID:         tradeID,
		VenueOrderID:    o.VenueOrderID,
		VenuePositionID: positionID,
		InstrumentID:    o.InstrumentID,
		Side:            string(o.Side),
		LastQty:         qty.String(),
		LastPx:          px.String(),
		Commission:      commission.Amount().String(),
		CommissionCcy:   commission.Currency.Code,
		LiquiditySide:   string(liquidity),
		AvgPx:           newAvg.String(),
	}

	if err := o.ApplyFill(px, qty, tradeID, ev); err != nil {
		return err
	}
	o.LiquiditySide = liquidity
	o.PositionID = positionID
	e.emit(ev)

	if o.Status.IsTerminal() {
		e.removeFromAllQueues(o.ClientOrderID)
	}
	e.onFillContingency(o, now)
	if o.Status.IsTerminal() {
		e.onTerminal(o, now)
	}
	return nil
}
