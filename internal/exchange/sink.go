package exchange

import (
	"go.uber.org/zap"

	"github.com/jclangner/nautilus-trader/internal/account"
	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// EventSink is the abstract collaborator the exchange forwards every
// lifecycle event to once its own account/metrics bookkeeping has run —
// the "message bus wire layer" named out of scope in §1, represented here
// only by this narrow interface.
type EventSink interface {
	Publish(ev events.Event)
}

// SliceSink is an in-memory EventSink test double: the core ships this and
// nothing else that speaks to a real bus (§6 "EventSink ... ships an
// in-memory SliceSink test double and nothing else").
type SliceSink struct {
	Events []events.Event
}

func (s *SliceSink) Publish(ev events.Event) { s.Events = append(s.Events, ev) }

// accountRouter is the concrete matching.EventSink every per-instrument
// engine is wired to: it settles OrderFilled events into the account's
// position/balance bookkeeping (§4.5), updates exchange metrics, logs per
// the teacher's field conventions, and finally forwards the event unchanged
// to the exchange's own outbound EventSink.
type accountRouter struct {
	acct      *account.Account
	inst      *instrument.Instrument
	precision uint8
	metrics   *metrics
	logger    *zap.Logger
	outbound  EventSink
}

func (r *accountRouter) Publish(ev events.Event) {
	switch e := ev.(type) {
	case events.OrderSubmitted:
		r.metrics.ordersSubmitted.Inc()
		r.logger.Debug("order submitted", zap.String("client_order_id", e.ClientOrderID()))
	case events.OrderAccepted:
		r.metrics.ordersAccepted.Inc()
		r.logger.Debug("order accepted", zap.String("client_order_id", e.ClientOrderID()), zap.String("venue_order_id", e.VenueOrderID))
	case events.OrderRejected:
		r.metrics.ordersRejected.Inc()
		r.logger.Warn("order rejected", zap.String("client_order_id", e.ClientOrderID()), zap.String("reason", e.Reason))
	case events.OrderFilled:
		r.metrics.ordersFilled.Inc()
		r.applyFill(e)
		r.logger.Debug("order filled",
			zap.String("client_order_id", e.ClientOrderID()),
			zap.String("trade_id", e.TradeID),
			zap.String("last_px", e.LastPx),
			zap.String("last_qty", e.LastQty))
	}
	if r.outbound != nil {
		r.outbound.Publish(ev)
	}
}

// applyFill folds an OrderFilled event into the account position it settled
// into, then locks the additional margin the grown side of the position now
// requires at the instrument's configured leverage (§4.5 "account
// locks/unlocks margin according to leverage"). Both are balance changes
// and silently no-op while the account is frozen (§4.5 "Frozen accounts
// still update positions but reject balance changes" — the position update
// itself is never gated, only AdjustBalance/LockMargin/UnlockMargin are).
func (r *accountRouter) applyFill(e events.OrderFilled) {
	qty, err := numerics.ParseQuantity(e.LastQty, r.inst.SizePrecision)
	if err != nil {
		r.logger.Error("malformed fill quantity", zap.Error(err))
		return
	}
	px, err := numerics.ParsePrice(e.LastPx, r.precision)
	if err != nil {
		r.logger.Error("malformed fill price", zap.Error(err))
		return
	}

	fillSide := account.SideLong
	if e.Side == "SELL" {
		fillSide = account.SideShort
	}

	pos := r.acct.Position(e.VenuePositionID, e.InstrumentID, r.inst.SizePrecision, r.inst.QuoteCurrency)
	netBefore := pos.NetQty
	pos.ApplyFill(fillSide, qty, px, e.TradeID, r.inst.QuoteCurrency, e.EventTsEvent())

	if pos.NetQty.GreaterThan(netBefore) {
		grown, _ := pos.NetQty.Sub(netBefore)
		margin := r.acct.RequiredMargin(e.InstrumentID, grown, px, r.inst.QuoteCurrency)
		if lerr := r.acct.LockMargin(r.inst.QuoteCurrency, margin); lerr != nil && lerr != account.ErrAccountFrozen {
			r.logger.Error("margin lock failed", zap.Error(lerr))
		}
	} else if pos.NetQty.LessThan(netBefore) {
		shrunk, _ := netBefore.Sub(pos.NetQty)
		margin := r.acct.RequiredMargin(e.InstrumentID, shrunk, pos.AvgOpenPx, r.inst.QuoteCurrency)
		if uerr := r.acct.UnlockMargin(r.inst.QuoteCurrency, margin); uerr != nil && uerr != account.ErrAccountFrozen {
			r.logger.Error("margin unlock failed", zap.Error(uerr))
		}
	}
}
