package matching

import (
	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// registerContingency records the peer/parent relationships an accepted
// order participates in, so a later fill or cancel knows who to propagate
// to (§4.3.5). It never triggers an action itself — only OTO holding in
// Submit, onFillContingency, and onCancelContingency do that.
func (e *Engine) registerContingency(o *orders.Order) {
	if o.ContingencyType == orders.ContingencyOCO || o.ContingencyType == orders.ContingencyOUO {
		if len(o.LinkedOrderIDs) > 0 {
			e.peerGroups[o.ClientOrderID] = o.LinkedOrderIDs
		}
	}
}

// onFillContingency propagates the consequences of a fill (§4.3.5):
// OTO releases every held child of this order; OCO cancels every peer.
func (e *Engine) onFillContingency(o *orders.Order, now int64) {
	if o.ContingencyType == orders.ContingencyOTO {
		children := e.otoChildren[o.ClientOrderID]
		delete(e.otoChildren, o.ClientOrderID)
		for _, child := range children {
			_ = e.dispatch(child, now)
		}
	}
	if o.ContingencyType == orders.ContingencyOCO {
		e.cancelPeers(o, now)
	}
}

// onCancelContingency propagates an order's cancellation to its OCO peers
// (§4.3.5: "on cancel of one, cancel all peers").
func (e *Engine) onCancelContingency(o *orders.Order, now int64) {
	if o.ContingencyType == orders.ContingencyOCO {
		e.cancelPeers(o, now)
	}
}

func (e *Engine) cancelPeers(o *orders.Order, now int64) {
	peers := e.peerGroups[o.ClientOrderID]
	delete(e.peerGroups, o.ClientOrderID)
	for _, peerID := range peers {
		peer, ok := e.index[peerID]
		if !ok || peer.Status.IsTerminal() {
			continue
		}
		delete(e.peerGroups, peerID)
		e.removeFromAllQueues(peerID)
		if err := e.transition(peer, orders.StatusCanceled, events.OrderCanceled{
			Base:         events.NewBase(peerID, now, now),
			VenueOrderID: peer.VenueOrderID,
			Reason:       "canceled: OCO peer filled or canceled",
		}); err != nil {
			continue
		}
		e.onTerminal(peer, now)
	}
}

// mirrorOUOQuantity mirrors a successful quantity-only update to every OUO
// peer of o (§4.3.5: "on quantity update of one, mirror to peers").
func (e *Engine) mirrorOUOQuantity(o *orders.Order, now int64) {
	if o.ContingencyType != orders.ContingencyOUO {
		return
	}
	for _, peerID := range e.peerGroups[o.ClientOrderID] {
		peer, ok := e.index[peerID]
		if !ok || peer.Status.IsTerminal() {
			continue
		}
		peer.Quantity = o.Quantity
		e.emit(events.OrderUpdated{
			Base:         events.NewBase(peerID, now, now),
			VenueOrderID: peer.VenueOrderID,
			Quantity:     peer.Quantity.String(),
		})
	}
}

// onTerminal is the single place a newly-terminal order's bookkeeping
// converges: OCO propagation already happened at the fill/cancel call site,
// so this only clears any remaining held-child registration (an expired or
// rejected OTO parent never fires its children).
func (e *Engine) onTerminal(o *orders.Order, now int64) {
	if children, ok := e.otoChildren[o.ClientOrderID]; ok && o.Status != orders.StatusFilled {
		delete(e.otoChildren, o.ClientOrderID)
		for _, child := range children {
			if child.Status.IsTerminal() {
				continue
			}
			e.removeFromAllQueues(child.ClientOrderID)
			_ = e.transition(child, orders.StatusCanceled, events.OrderCanceled{
				Base:   events.NewBase(child.ClientOrderID, now, now),
				Reason: "canceled: OTO parent did not fill",
			})
		}
	}
}
