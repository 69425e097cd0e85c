package matching

import (
	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// isTriggered reports whether a stop order's trigger condition holds against
// the current reference price (§4.3.1: "BUY: ref >= trigger_px, SELL: ref <=
// trigger_px").
func (e *Engine) isTriggered(o *orders.Order) bool {
	ref, ok := e.ref.forTrigger(o.TriggerType, o.TriggerPrice.Precision())
	if !ok {
		return false
	}
	if o.Side == orders.SideBuy {
		return ref.GreaterThan(o.TriggerPrice) || ref.Equal(o.TriggerPrice)
	}
	return ref.LessThan(o.TriggerPrice) || ref.Equal(o.TriggerPrice)
}

// triggerStop converts a triggered STOP_MARKET into an immediate market
// match, or a STOP_LIMIT into a resting LIMIT at TRIGGERED status (§4.3.1,
// §4.3.3 step 1).
func (e *Engine) triggerStop(o *orders.Order, now int64) error {
	if err := e.transition(o, orders.StatusTriggered, events.OrderTriggered{Base: events.NewBase(o.ClientOrderID, now, now)}); err != nil {
		return err
	}
	delete(e.trailExtreme, o.ClientOrderID)

	switch o.Kind {
	case orders.KindStopMarket, orders.KindTrailingStopMarket:
		return e.matchTakerMarket(o, now)
	case orders.KindStopLimit, orders.KindTrailingStopLimit:
		if e.isMarketable(o.Side, o.Price) {
			return e.matchTakerLimit(o, now)
		}
		e.rest(o, now)
		return nil
	default:
		return nil
	}
}

// trailSeed returns the initial extreme (the reference price observed at
// acceptance) a trailing order's offset tracks from.
func (e *Engine) trailSeed(o *orders.Order) numerics.Price {
	ref, ok := e.ref.forTrigger(orders.TriggerLast, o.TriggerPrice.Precision())
	if !ok {
		return o.TriggerPrice
	}
	return ref
}

// offsetAmount resolves a trailing offset expressed in PRICE, TICKS,
// BASIS_POINTS, or PRICE_TIER into an absolute Price delta. Only
// BASIS_POINTS is scaled against the current reference price; for PRICE,
// TICKS and PRICE_TIER, TrailingOffset is returned as-is, so a TICKS offset
// is not converted from a tick count here.
func offsetAmount(o *orders.Order, refPx numerics.Price) numerics.Price {
	if o.OffsetType == orders.OffsetBasisPoints {
		raw := refPx.Raw() * o.TrailingOffset.Raw() / 1_000_000_000 / 10_000
		return numerics.PriceFromRaw(raw, refPx.Precision())
	}
	return o.TrailingOffset
}

// updateTrailing recomputes a trailing order's trigger price from the newly
// observed reference price, adjusting only in the favorable direction
// (§4.3.1): BUY trails the minimum-seen low, SELL trails the maximum-seen
// high.
func (e *Engine) updateTrailing(o *orders.Order, now int64) {
	last, ok := e.ref.forTrigger(orders.TriggerLast, o.TriggerPrice.Precision())
	if !ok {
		return
	}
	extreme, tracked := e.trailExtreme[o.ClientOrderID]
	if !tracked {
		extreme = last
	}

	if o.Side == orders.SideBuy {
		if last.LessThan(extreme) {
			extreme = last
		}
	} else {
		if last.GreaterThan(extreme) {
			extreme = last
		}
	}
	e.trailExtreme[o.ClientOrderID] = extreme

	offset := offsetAmount(o, extreme)
	var newTrigger numerics.Price
	if o.Side == orders.SideBuy {
		newTrigger = extreme.Add(offset)
	} else {
		newTrigger = extreme.Sub(offset)
	}

	// Only move in the favorable direction: tighter for BUY means lower,
	// for SELL means higher.
	if o.Side == orders.SideBuy && !newTrigger.LessThan(o.TriggerPrice) {
		return
	}
	if o.Side == orders.SideSell && !newTrigger.GreaterThan(o.TriggerPrice) {
		return
	}
	delta := newTrigger.Sub(o.TriggerPrice)
	o.TriggerPrice = newTrigger
	if o.Kind == orders.KindTrailingStopLimit {
		// limit offset tracks alongside trigger at the same delta, keeping
		// the order's aggressiveness constant as it trails.
		o.Price = o.Price.Add(delta)
	}
}

// evaluateStopsAndTrailing is match-loop step 1 (§4.3.3): recompute trailing
// triggers, then promote any now-triggered pending stop to its match path.
func (e *Engine) evaluateStopsAndTrailing(now int64) {
	for _, side := range []*restingSide{e.stopBids, e.stopAsks} {
		for _, entry := range append([]*restingOrder(nil), side.all()...) {
			o := entry.order
			if o.Kind.IsTrailing() {
				e.updateTrailing(o, now)
			}
		}
	}
	for _, side := range []*restingSide{e.stopBids, e.stopAsks} {
		triggered := make([]*orders.Order, 0)
		for _, entry := range side.all() {
			if e.isTriggered(entry.order) {
				triggered = append(triggered, entry.order)
			}
		}
		for _, o := range triggered {
			side.remove(o.ClientOrderID)
			_ = e.triggerStop(o, now)
		}
	}
}

// evaluateExpiry is match-loop step 2 (§4.3.3): GTD orders whose
// expire_time_ns has passed expire, wherever they currently rest.
func (e *Engine) evaluateExpiry(now int64) {
	var expired []*orders.Order
	for _, o := range e.index {
		if o.TimeInForce == orders.TIFGTD && o.ExpireTimeNs <= now && !o.Status.IsTerminal() {
			expired = append(expired, o)
		}
	}
	for _, o := range expired {
		e.removeFromAllQueues(o.ClientOrderID)
		_ = e.transition(o, orders.StatusExpired, events.OrderExpired{Base: events.NewBase(o.ClientOrderID, now, now), VenueOrderID: o.VenueOrderID})
		e.onTerminal(o, now)
	}
}

func (e *Engine) removeFromAllQueues(clientOrderID string) {
	e.bids.remove(clientOrderID)
	e.asks.remove(clientOrderID)
	e.stopBids.remove(clientOrderID)
	e.stopAsks.remove(clientOrderID)
	delete(e.trailExtreme, clientOrderID)
}
