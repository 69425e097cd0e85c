package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jclangner/nautilus-trader/internal/book"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

func testCurrency() numerics.Currency {
	return numerics.Currency{Code: "USD", Precision: 2, Kind: numerics.CurrencyFiat, Name: "US Dollar"}
}

func testInstrument(ccy numerics.Currency) *instrument.Instrument {
	lot, _ := numerics.NewQuantity(1, 0)
	mult, _ := numerics.NewQuantity(1, 0)
	return &instrument.Instrument{
		ID:             instrument.ID{Symbol: "BTC-USD", Venue: "SIM"},
		PricePrecision: 2,
		SizePrecision:  0,
		Multiplier:     mult,
		LotSize:        lot,
		QuoteCurrency:  ccy,
		Commission:     instrument.BpsCommissionModel{MakerBps: 0, TakerBps: 0},
	}
}

func newTestExchange(t *testing.T) (*SimulatedExchange, *instrument.Instrument, *SliceSink) {
	t.Helper()
	ccy := testCurrency()
	sink := &SliceSink{}
	e := NewSimulatedExchange(Config{
		Seed:          1,
		OMS:           orders.OMSNetting,
		MaxMatchDepth: 25,
		BaseCurrency:  ccy,
		Sink:          sink,
	})
	e.InitializeAccount()
	e.SetLatencyModel(NewFixedLatencyModel(0, 0, nil))
	e.SetFillModel(NewRandomMissFillModel(0, 0, false, nil))

	inst := testInstrument(ccy)
	require.NoError(t, e.RegisterInstrument(inst, book.L2MBP))
	return e, inst, sink
}

func TestSendAndProcessCrossesRestingLimitOrder(t *testing.T) {
	e, inst, sink := newTestExchange(t)

	sellQty, _ := numerics.NewQuantity(5, 0)
	sellPx, _ := numerics.NewPrice(10000, 2)
	sellOrder := &orders.Order{
		ClientOrderID: "C-1",
		InstrumentID:  inst.ID,
		StrategyID:    "S-1",
		Side:          orders.SideSell,
		Kind:          orders.KindLimit,
		Quantity:      sellQty,
		Price:         sellPx,
		TimeInForce:   orders.TIFGTC,
		Status:        orders.StatusInitialized,
		TsInit:        1,
	}
	e.Send(Command{
		Kind: CmdSubmitOrder, InstrumentID: inst.ID,
		ClientOrderID: "C-1", CommandID: "C-1", TsInit: 1, Order: sellOrder,
	})
	e.Process(1)

	buyQty, _ := numerics.NewQuantity(5, 0)
	buyPx, _ := numerics.NewPrice(10000, 2)
	buyOrder := &orders.Order{
		ClientOrderID: "C-2",
		InstrumentID:  inst.ID,
		StrategyID:    "S-1",
		Side:          orders.SideBuy,
		Kind:          orders.KindLimit,
		Quantity:      buyQty,
		Price:         buyPx,
		TimeInForce:   orders.TIFGTC,
		Status:        orders.StatusInitialized,
		TsInit:        2,
	}
	e.Send(Command{
		Kind: CmdSubmitOrder, InstrumentID: inst.ID,
		ClientOrderID: "C-2", CommandID: "C-2", TsInit: 2, Order: buyOrder,
	})
	e.Process(2)

	eng, err := e.Engine(inst.ID)
	require.NoError(t, err)

	resting, ok := eng.Lookup("C-1")
	require.True(t, ok)
	assert.Equal(t, orders.StatusFilled, resting.Status)

	aggressor, ok := eng.Lookup("C-2")
	require.True(t, ok)
	assert.Equal(t, orders.StatusFilled, aggressor.Status)

	assert.Equal(t, int64(2), e.Now())
	assert.NotEmpty(t, sink.Events)
}

func TestSendDelaysUntilCommitTime(t *testing.T) {
	e, inst, _ := newTestExchange(t)
	e.SetLatencyModel(&PerKindLatencyModel{Default: 100})

	qty, _ := numerics.NewQuantity(1, 0)
	px, _ := numerics.NewPrice(10000, 2)
	o := &orders.Order{
		ClientOrderID: "C-1", InstrumentID: inst.ID, StrategyID: "S-1",
		Side: orders.SideBuy, Kind: orders.KindLimit, Quantity: qty, Price: px,
		TimeInForce: orders.TIFGTC, Status: orders.StatusInitialized, TsInit: 0,
	}
	e.Send(Command{Kind: CmdSubmitOrder, InstrumentID: inst.ID, ClientOrderID: "C-1", CommandID: "C-1", TsInit: 0, Order: o})

	e.Process(50)
	eng, _ := e.Engine(inst.ID)
	_, ok := eng.Lookup("C-1")
	assert.False(t, ok)

	e.Process(100)
	_, ok = eng.Lookup("C-1")
	assert.True(t, ok)
}

func TestResetClearsBooksAndAccount(t *testing.T) {
	e, inst, _ := newTestExchange(t)

	qty, _ := numerics.NewQuantity(1, 0)
	px, _ := numerics.NewPrice(10000, 2)
	o := &orders.Order{
		ClientOrderID: "C-1", InstrumentID: inst.ID, StrategyID: "S-1",
		Side: orders.SideBuy, Kind: orders.KindLimit, Quantity: qty, Price: px,
		TimeInForce: orders.TIFGTC, Status: orders.StatusInitialized, TsInit: 0,
	}
	e.Send(Command{Kind: CmdSubmitOrder, InstrumentID: inst.ID, ClientOrderID: "C-1", CommandID: "C-1", TsInit: 0, Order: o})
	e.Process(0)

	e.Reset()

	eng, err := e.Engine(inst.ID)
	require.NoError(t, err)
	_, ok := eng.Lookup("C-1")
	assert.False(t, ok)
	assert.Equal(t, int64(0), e.Now())
}
