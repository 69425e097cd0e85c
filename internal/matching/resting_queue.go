package matching

import (
	"sort"

	"github.com/jclangner/nautilus-trader/internal/orders"
)

// restingOrder pairs an order with the bookkeeping the priority queue needs
// but that doesn't belong on the order value itself: the acceptance
// timestamp and a stable per-engine sequence used as the final tie-break
// once price and ts_accepted are equal (§4.3.2's "venue order ID" role,
// generalized to a monotonic sequence so ties are still deterministic even
// before a venue order ID has been assigned).
type restingOrder struct {
	order      *orders.Order
	tsAccepted int64
	sequence   uint64
}

// restingSide is one side's price/time-priority resting-order set (§4.3:
// "orders_bid and orders_ask"). It is kept as a slice sorted by priority
// because backtest book depths are small and keeping it sorted on insert is
// both simpler and plenty fast compared to a heap with live re-priority on
// partial fill (partial fills must NOT disturb queue position, per §4.3.2).
type restingSide struct {
	side    orders.Side
	entries []*restingOrder
}

func newRestingSide(side orders.Side) *restingSide {
	return &restingSide{side: side}
}

// better reports whether entry a has strictly higher priority than b for
// this side: best price first, then earliest ts_accepted, then lowest
// sequence (§4.3.2).
func (s *restingSide) better(a, b *restingOrder) bool {
	pa, pb := a.order.Price, b.order.Price
	if !pa.Equal(pb) {
		if s.side == orders.SideBuy {
			return pa.GreaterThan(pb)
		}
		return pa.LessThan(pb)
	}
	if a.tsAccepted != b.tsAccepted {
		return a.tsAccepted < b.tsAccepted
	}
	return a.sequence < b.sequence
}

// insert places e in priority order (re-keying support: callers remove then
// re-insert to move an order to the back of its new price level, per §4.3.6).
func (s *restingSide) insert(e *restingOrder) {
	i := sort.Search(len(s.entries), func(i int) bool { return !s.better(s.entries[i], e) })
	s.entries = append(s.entries, nil)
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e
}

// remove deletes the entry for clientOrderID, if present, returning it.
func (s *restingSide) remove(clientOrderID string) *restingOrder {
	for i, e := range s.entries {
		if e.order.ClientOrderID == clientOrderID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return e
		}
	}
	return nil
}

// front returns the highest-priority entry, if any.
func (s *restingSide) front() *restingOrder {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[0]
}

// all returns the entries in priority order; callers must not mutate it.
func (s *restingSide) all() []*restingOrder { return s.entries }
