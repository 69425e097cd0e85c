package matching

import (
	"go.uber.org/zap"

	"github.com/jclangner/nautilus-trader/internal/book"
	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/marketdata"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
	"github.com/jclangner/nautilus-trader/pkg/coreerr"
)

// bookSideOf maps an order's trading side to the book side it arrives on
// (BUY -> bid, SELL -> ask); book.SimulateFills and ConsumeLiquidity take
// liquidity from the ladder opposite the side passed in.
func bookSideOf(side orders.Side) marketdata.BookSide {
	if side == orders.SideBuy {
		return marketdata.BookSideBid
	}
	return marketdata.BookSideAsk
}

// refPrices holds the reference prices trigger evaluation reads from,
// refreshed on every quote/trade/bar the engine observes (§4.3.1).
type refPrices struct {
	last numerics.Price
	bid  numerics.Price
	ask  numerics.Price
	set  bool
}

func (r refPrices) mid(precision uint8) numerics.Price {
	if !r.set {
		return numerics.Price{}
	}
	sum := r.bid.Add(r.ask)
	return numerics.PriceFromRaw(sum.Raw()/2, precision)
}

// forTrigger resolves the reference price a given TriggerType compares
// against (§4.3.1).
func (r refPrices) forTrigger(kind orders.TriggerType, precision uint8) (numerics.Price, bool) {
	if !r.set {
		return numerics.Price{}, false
	}
	switch kind {
	case orders.TriggerBid:
		return r.bid, true
	case orders.TriggerAsk:
		return r.ask, true
	case orders.TriggerMid:
		return r.mid(precision), true
	case orders.TriggerBidAsk, orders.TriggerMark, orders.TriggerIndex:
		// Mark/Index prices require an external mark-price feed this core
		// does not model; fall back to last, same as the default LAST case.
		fallthrough
	default:
		return r.last, true
	}
}

// Engine is the per-instrument matching engine (§4.3). It owns the two
// resting-order sides, the pending-trigger stop sides, and every
// contingency-group bookkeeping the spec names.
type Engine struct {
	Instrument *instrument.Instrument
	Book       *book.OrderBook

	OMS                      orders.OMSType
	RejectStopWhenMarketable bool
	MaxMatchDepth            int

	sink      EventSink
	ids       IDGenerator
	positions PositionResolver
	fillModel FillModel
	logger    *zap.Logger

	bids      *restingSide
	asks      *restingSide
	stopBids  *restingSide
	stopAsks  *restingSide
	index     map[string]*orders.Order

	otoChildren map[string][]*orders.Order // parent client_order_id -> unsubmitted children
	peerGroups  map[string][]string        // client_order_id -> OCO/OUO peer client_order_ids

	trailExtreme map[string]numerics.Price // client_order_id -> min-seen low (BUY) / max-seen high (SELL)

	ref refPrices
	now int64
	seq uint64
}

// Config bundles the collaborators Engine needs, injected at construction
// per the Design Notes ("strategy-object interfaces ... injected at exchange
// construction").
type Config struct {
	Instrument               *instrument.Instrument
	Book                      *book.OrderBook
	Sink                      EventSink
	IDs                       IDGenerator
	Positions                 PositionResolver
	FillModel                 FillModel
	OMS                       orders.OMSType
	RejectStopWhenMarketable  bool
	MaxMatchDepth             int
	Logger                    *zap.Logger
}

// NewEngine constructs a matching engine for one instrument.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	depth := cfg.MaxMatchDepth
	if depth <= 0 {
		depth = 25
	}
	return &Engine{
		Instrument:               cfg.Instrument,
		Book:                     cfg.Book,
		OMS:                      cfg.OMS,
		RejectStopWhenMarketable: cfg.RejectStopWhenMarketable,
		MaxMatchDepth:            depth,
		sink:                     cfg.Sink,
		ids:                      cfg.IDs,
		positions:                cfg.Positions,
		fillModel:                cfg.FillModel,
		logger:                   logger,
		bids:                     newRestingSide(orders.SideBuy),
		asks:                     newRestingSide(orders.SideSell),
		stopBids:                 newRestingSide(orders.SideBuy),
		stopAsks:                 newRestingSide(orders.SideSell),
		index:                    make(map[string]*orders.Order),
		otoChildren:              make(map[string][]*orders.Order),
		peerGroups:               make(map[string][]string),
		trailExtreme:             make(map[string]numerics.Price),
	}
}

// sideOf returns the resting-order side matching o.Side.
func (e *Engine) sideOf(side orders.Side) *restingSide {
	if side == orders.SideBuy {
		return e.bids
	}
	return e.asks
}

func (e *Engine) stopSideOf(side orders.Side) *restingSide {
	if side == orders.SideBuy {
		return e.stopBids
	}
	return e.stopAsks
}

func (e *Engine) opposingBookSide(side orders.Side) (book.Level, bool) {
	if side == orders.SideBuy {
		return e.Book.BestAsk()
	}
	return e.Book.BestBid()
}

// oppositeSide returns the other trading side.
func oppositeSide(side orders.Side) orders.Side {
	if side == orders.SideBuy {
		return orders.SideSell
	}
	return orders.SideBuy
}

// crossesLimit reports whether opposingPx is aggressive enough for a `side`
// order bounded by limit to trade against, either as a resting client order
// or a book level. limit == nil means an unbounded MARKET order, which
// crosses anything (§4.3.1).
func crossesLimit(side orders.Side, opposingPx numerics.Price, limit *numerics.Price) bool {
	if limit == nil {
		return true
	}
	if side == orders.SideBuy {
		return limit.GreaterThan(opposingPx) || limit.Equal(opposingPx)
	}
	return limit.LessThan(opposingPx) || limit.Equal(opposingPx)
}

func (e *Engine) emit(ev events.Event) {
	if e.sink != nil {
		e.sink.Publish(ev)
	}
}

// transition moves o to the given status and publishes the triggering event
// to the sink, the one path every FSM move in this package should go
// through so the outbound event stream never silently drops a transition.
func (e *Engine) transition(o *orders.Order, to orders.Status, ev events.Event) error {
	if err := o.Transition(to, ev); err != nil {
		return err
	}
	e.emit(ev)
	return nil
}

func (e *Engine) nextSeq() uint64 {
	e.seq++
	return e.seq
}

// Lookup returns the indexed order for a client_order_id, if tracked: any
// accepted order, resting or not (filled and canceled ones included), and
// OTO children held at SUBMITTED.
func (e *Engine) Lookup(clientOrderID string) (*orders.Order, bool) {
	o, ok := e.index[clientOrderID]
	return o, ok
}

// Orders returns every order this engine has indexed (accepted orders and
// held OTO children; an order rejected before acceptance is not indexed),
// for mass-status report generation.
func (e *Engine) Orders() []*orders.Order {
	out := make([]*orders.Order, 0, len(e.index))
	for _, o := range e.index {
		out = append(out, o)
	}
	return out
}

// Submit implements order acceptance/placement (§4.3.1). now is the
// simulated commit time at which this command took effect.
func (e *Engine) Submit(o *orders.Order, now int64) error {
	e.now = now
	if err := o.Validate(e.Instrument.PricePrecision); err != nil {
		return err
	}
	if _, exists := e.index[o.ClientOrderID]; exists {
		return coreerr.Validation("order %s: duplicate client_order_id", o.ClientOrderID)
	}

	if err := e.transition(o, orders.StatusSubmitted, events.OrderSubmitted{Base: events.NewBase(o.ClientOrderID, now, now)}); err != nil {
		return err
	}

	// An OTO child stays parked at SUBMITTED until its parent fills (§4.3.5
	// "on any fill of parent, submit all children to the engine"); it never
	// reaches the book on its own.
	if o.ContingencyType == orders.ContingencyOTO && o.ParentOrderID != "" {
		if parent, ok := e.index[o.ParentOrderID]; !ok || parent.Status != orders.StatusFilled {
			e.index[o.ClientOrderID] = o
			e.otoChildren[o.ParentOrderID] = append(e.otoChildren[o.ParentOrderID], o)
			return nil
		}
	}
	return e.dispatch(o, now)
}

// dispatch routes an order past acceptance to its kind-specific acceptance
// path. Used both by Submit directly and by onFillContingency once an OTO
// parent's fill releases a held child.
func (e *Engine) dispatch(o *orders.Order, now int64) error {
	switch {
	case o.Kind == orders.KindMarket || o.Kind == orders.KindMarketToLimit:
		return e.acceptAndMatchMarket(o, now)
	case o.Kind == orders.KindLimit:
		return e.acceptLimit(o, now)
	case o.Kind.HasTrigger():
		return e.acceptStop(o, now)
	default:
		return coreerr.Validation("order %s: unsupported order kind %s", o.ClientOrderID, o.Kind)
	}
}

func (e *Engine) accept(o *orders.Order, now int64) error {
	venueID := e.ids.NextVenueOrderID(o.InstrumentID)
	o.VenueOrderID = venueID
	if err := e.transition(o, orders.StatusAccepted, events.OrderAccepted{Base: events.NewBase(o.ClientOrderID, now, now), VenueOrderID: venueID}); err != nil {
		return err
	}
	// Indexed at acceptance regardless of kind or how quickly it fills, so
	// Lookup/Orders see an immediately-marketable MARKET/LIMIT order too.
	e.index[o.ClientOrderID] = o
	// Registered at acceptance regardless of kind, so even an immediately
	// marketable MARKET/LIMIT order's OCO/OUO peers are known by the time its
	// fill fires contingency propagation.
	e.registerContingency(o)
	return nil
}

func (e *Engine) reject(o *orders.Order, now int64, reason string) error {
	return e.transition(o, orders.StatusRejected, events.OrderRejected{Base: events.NewBase(o.ClientOrderID, now, now), Reason: reason})
}

// isMarketable reports whether a limit order at px would cross either the
// best resting client order on the opposing side or the current opposing
// top of book (§4.3.1, §4.3.2): client liquidity and market-data liquidity
// are both real crossable depth, so either one marketability.
func (e *Engine) isMarketable(side orders.Side, px numerics.Price) bool {
	if maker := e.sideOf(oppositeSide(side)).front(); maker != nil {
		if crossesLimit(side, maker.order.Price, &px) {
			return true
		}
	}
	top, ok := e.opposingBookSide(side)
	if !ok {
		return false
	}
	return crossesLimit(side, top.Price, &px)
}

func (e *Engine) acceptLimit(o *orders.Order, now int64) error {
	marketable := e.isMarketable(o.Side, o.Price)
	if marketable && o.PostOnly {
		if err := e.reject(o, now, "post_only would cross"); err != nil {
			return err
		}
		return nil
	}
	if err := e.accept(o, now); err != nil {
		return err
	}
	if marketable {
		return e.matchTakerLimit(o, now)
	}
	e.rest(o, now)
	return nil
}

func (e *Engine) acceptAndMatchMarket(o *orders.Order, now int64) error {
	if err := e.accept(o, now); err != nil {
		return err
	}
	return e.matchTakerMarket(o, now)
}

func (e *Engine) acceptStop(o *orders.Order, now int64) error {
	triggered := e.isTriggered(o)
	if triggered && e.RejectStopWhenMarketable {
		return e.reject(o, now, "stop order already marketable at acceptance")
	}
	if err := e.accept(o, now); err != nil {
		return err
	}
	e.index[o.ClientOrderID] = o
	if o.Kind.IsTrailing() {
		e.trailExtreme[o.ClientOrderID] = e.trailSeed(o)
	}
	if triggered {
		return e.triggerStop(o, now)
	}
	e.stopSideOf(o.Side).insert(&restingOrder{order: o, tsAccepted: now, sequence: e.nextSeq()})
	return nil
}

// rest inserts an accepted, non-marketable order into its priority queue at
// (price, now).
func (e *Engine) rest(o *orders.Order, now int64) {
	e.sideOf(o.Side).insert(&restingOrder{order: o, tsAccepted: now, sequence: e.nextSeq()})
	e.index[o.ClientOrderID] = o
}
