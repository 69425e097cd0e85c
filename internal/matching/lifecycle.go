package matching

import (
	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// ModifyOrder alters quantity, price, and/or trigger_price on a resting
// order (§4.3.6). A price change re-keys the order at the back of its new
// level, losing time priority; a quantity-only change keeps its place.
// Reducing quantity below filled_qty, and any request against an unknown or
// already-terminal order, are runtime refusals reported as
// OrderModifyRejected rather than a returned error (§7: "InvalidStateTrigger
// ... reported as OrderModifyRejected/OrderCancelRejected; order state
// unchanged").
func (e *Engine) ModifyOrder(clientOrderID string, newQty *numerics.Quantity, newPrice, newTrigger *numerics.Price, now int64) {
	o, ok := e.index[clientOrderID]
	if !ok {
		e.emit(events.OrderModifyRejected{Base: events.NewBase(clientOrderID, now, now), Reason: "not found"})
		return
	}
	if o.Status.IsTerminal() {
		e.emit(events.OrderModifyRejected{Base: events.NewBase(clientOrderID, now, now), Reason: "order already closed"})
		return
	}

	prevStatus := o.Status
	if err := e.transition(o, orders.StatusPendingUpdate, events.OrderPendingUpdate{Base: events.NewBase(clientOrderID, now, now)}); err != nil {
		e.emit(events.OrderModifyRejected{Base: events.NewBase(clientOrderID, now, now), Reason: "invalid state for modify"})
		return
	}

	if newQty != nil && newQty.LessThan(o.FilledQty) {
		rejected := events.OrderModifyRejected{Base: events.NewBase(clientOrderID, now, now), Reason: "quantity below filled_qty"}
		if err := o.RevertPending(rejected); err == nil {
			e.emit(rejected)
		}
		return
	}

	priceChanged := newPrice != nil && !newPrice.Equal(o.Price)
	if priceChanged {
		e.sideOf(o.Side).remove(clientOrderID)
		e.stopSideOf(o.Side).remove(clientOrderID)
	}

	var qtyStr, pxStr, trigStr string
	if newQty != nil {
		o.Quantity = *newQty
		qtyStr = newQty.String()
	}
	if newPrice != nil {
		o.Price = *newPrice
		pxStr = newPrice.String()
	}
	if newTrigger != nil {
		o.TriggerPrice = *newTrigger
		trigStr = newTrigger.String()
	}

	if priceChanged {
		entry := &restingOrder{order: o, tsAccepted: now, sequence: e.nextSeq()}
		if o.Kind.HasTrigger() && o.Status != orders.StatusTriggered {
			e.stopSideOf(o.Side).insert(entry)
		} else {
			e.sideOf(o.Side).insert(entry)
		}
	}

	ev := events.OrderUpdated{
		Base:         events.NewBase(clientOrderID, now, now),
		VenueOrderID: o.VenueOrderID,
		Quantity:     qtyStr,
		Price:        pxStr,
		TriggerPrice: trigStr,
	}
	if err := e.transition(o, prevStatus, ev); err != nil {
		return
	}
	if newQty != nil {
		e.mirrorOUOQuantity(o, now)
	}
}

// CancelOrder removes a resting order from its book/queue and emits
// OrderCanceled (§4.3.6); an already-terminal order instead gets
// OrderCancelRejected with reason "order already closed" (§5.3
// "Cancellation"), and an unknown one gets OrderCancelRejected with reason
// "not found". OCO peers are canceled in turn.
func (e *Engine) CancelOrder(clientOrderID string, now int64) {
	o, ok := e.index[clientOrderID]
	if !ok {
		e.emit(events.OrderCancelRejected{Base: events.NewBase(clientOrderID, now, now), Reason: "not found"})
		return
	}
	if o.Status.IsTerminal() {
		e.emit(events.OrderCancelRejected{Base: events.NewBase(clientOrderID, now, now), Reason: "order already closed"})
		return
	}

	if err := e.transition(o, orders.StatusPendingCancel, events.OrderPendingCancel{Base: events.NewBase(clientOrderID, now, now)}); err != nil {
		e.emit(events.OrderCancelRejected{Base: events.NewBase(clientOrderID, now, now), Reason: "invalid state for cancel"})
		return
	}
	e.removeFromAllQueues(clientOrderID)
	if err := e.transition(o, orders.StatusCanceled, events.OrderCanceled{
		Base:         events.NewBase(clientOrderID, now, now),
		VenueOrderID: o.VenueOrderID,
		Reason:       "canceled by request",
	}); err != nil {
		return
	}
	e.onCancelContingency(o, now)
	e.onTerminal(o, now)
}

// CancelAllOrders sweeps every non-terminal order for a strategy on this
// instrument (§4.3.6).
func (e *Engine) CancelAllOrders(strategyID string, now int64) {
	var ids []string
	for id, o := range e.index {
		if o.StrategyID == strategyID && !o.Status.IsTerminal() {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		e.CancelOrder(id, now)
	}
}
