package matching

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jclangner/nautilus-trader/internal/book"
	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/marketdata"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// recordingSink is the EventSink test double: every event published is kept
// in arrival order for assertion.
type recordingSink struct {
	events []events.Event
}

func (s *recordingSink) Publish(ev events.Event) { s.events = append(s.events, ev) }

func (s *recordingSink) ofType(match func(events.Event) bool) []events.Event {
	var out []events.Event
	for _, ev := range s.events {
		if match(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// sequentialIDGenerator is a deterministic IDGenerator test double.
type sequentialIDGenerator struct {
	venueSeq int
	tradeSeq int
}

func (g *sequentialIDGenerator) NextVenueOrderID(id instrument.ID) string {
	g.venueSeq++
	return "V-" + itoa(g.venueSeq)
}

func (g *sequentialIDGenerator) NextTradeID() string {
	g.tradeSeq++
	return "T-" + itoa(g.tradeSeq)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// nettingPositionResolver derives one position per (instrument, strategy),
// the NETTING rule (§4.3.4).
type nettingPositionResolver struct{}

func (nettingPositionResolver) ResolvePositionID(clientOrderID string, instrumentID instrument.ID, strategyID string) string {
	return "P-" + instrumentID.String() + "-" + strategyID
}

// noMissFillModel passes every candidate fill through unchanged and never
// misses; the default for scenario tests that aren't specifically exercising
// the fill model.
type noMissFillModel struct {
	phantom   bool
	slipTicks int64
}

func (noMissFillModel) AdjustFill(side instrument.LiquiditySide, px numerics.Price, qty numerics.Quantity) FillAdjustment {
	return FillAdjustment{Qty: qty, Px: px}
}

func (m noMissFillModel) ResidualPolicy() (bool, int64) { return m.phantom, m.slipTicks }

// alwaysMissFillModel vetoes every candidate fill, simulating total latency
// miss for miss-path tests.
type alwaysMissFillModel struct{}

func (alwaysMissFillModel) AdjustFill(side instrument.LiquiditySide, px numerics.Price, qty numerics.Quantity) FillAdjustment {
	return FillAdjustment{Missed: true}
}

func (alwaysMissFillModel) ResidualPolicy() (bool, int64) { return false, 0 }

func testCurrency() numerics.Currency {
	return numerics.Currency{Code: "USD", Precision: 2, Kind: numerics.CurrencyFiat, Name: "US Dollar"}
}

func testInstrument() *instrument.Instrument {
	lot, _ := numerics.NewQuantity(1, 0)
	mult, _ := numerics.NewQuantity(1, 0)
	return &instrument.Instrument{
		ID:             instrument.ID{Symbol: "BTC-USD", Venue: "SIM"},
		PricePrecision: 2,
		SizePrecision:  0,
		Multiplier:     mult,
		LotSize:        lot,
		QuoteCurrency:  testCurrency(),
		Commission:     instrument.BpsCommissionModel{MakerBps: 0, TakerBps: 0},
	}
}

// newTestEngine builds an Engine with an empty L2 book and deterministic,
// pass-through collaborators, returning the sink so tests can inspect the
// emitted event stream.
func newTestEngine(t *testing.T, oms orders.OMSType) (*Engine, *recordingSink) {
	t.Helper()
	inst := testInstrument()
	bk := book.NewOrderBook(inst.ID, book.L2MBP, inst.PricePrecision)
	sink := &recordingSink{}
	eng := NewEngine(Config{
		Instrument:    inst,
		Book:          bk,
		Sink:          sink,
		IDs:           &sequentialIDGenerator{},
		Positions:     nettingPositionResolver{},
		FillModel:     noMissFillModel{},
		OMS:           oms,
		MaxMatchDepth: 25,
	})
	return eng, sink
}

func mustPrice(t *testing.T, units int64, precision uint8) numerics.Price {
	t.Helper()
	p, err := numerics.NewPrice(units, precision)
	require.NoError(t, err)
	return p
}

func mustQty(t *testing.T, units int64, precision uint8) numerics.Quantity {
	t.Helper()
	q, err := numerics.NewQuantity(units, precision)
	require.NoError(t, err)
	return q
}

// limitOrder builds a GTC LIMIT order ready for Engine.Submit.
func limitOrder(id string, side orders.Side, px numerics.Price, qty numerics.Quantity, now int64) *orders.Order {
	return &orders.Order{
		ClientOrderID: id,
		InstrumentID:  testInstrument().ID,
		StrategyID:    "S-1",
		Side:          side,
		Kind:          orders.KindLimit,
		Quantity:      qty,
		Price:         px,
		TimeInForce:   orders.TIFGTC,
		Status:        orders.StatusInitialized,
		TsInit:        now,
	}
}

// pushBookLevel seeds one ADD delta on the given book side and re-runs the
// match loop through it, exactly as a market-data feed would.
func pushBookLevel(t *testing.T, eng *Engine, side marketdata.BookSide, px numerics.Price, qty numerics.Quantity, now int64) {
	t.Helper()
	d, err := marketdata.NewOrderBookDelta(eng.Instrument.ID, marketdata.DeltaAdd, side, px, qty, "", now, now)
	require.NoError(t, err)
	eng.OnBookDelta(d, now)
}
