package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jclangner/nautilus-trader/internal/orders"
)

func TestSubmitOrderRequestToOrderParsesDecimalFields(t *testing.T) {
	ccy := testCurrency()
	inst := testInstrument(ccy)

	req := SubmitOrderRequest{
		ClientOrderID: "C-1",
		Symbol:        inst.ID.Symbol,
		Venue:         inst.ID.Venue,
		StrategyID:    "S-1",
		Side:          "BUY",
		Kind:          "LIMIT",
		Quantity:      "5",
		Price:         "100.00",
		TimeInForce:   "GTC",
	}

	o, err := req.ToOrder(inst, 42)
	require.NoError(t, err)
	assert.Equal(t, orders.SideBuy, o.Side)
	assert.Equal(t, orders.KindLimit, o.Kind)
	assert.Equal(t, "5", o.Quantity.String())
	assert.Equal(t, "100.00", o.Price.String())
	assert.Equal(t, orders.StatusInitialized, o.Status)
	assert.Equal(t, int64(42), o.TsInit)
}

func TestSubmitOrderRequestToOrderRejectsUnparseableQuantity(t *testing.T) {
	ccy := testCurrency()
	inst := testInstrument(ccy)

	req := SubmitOrderRequest{
		ClientOrderID: "C-1", Symbol: inst.ID.Symbol, Venue: inst.ID.Venue,
		StrategyID: "S-1", Side: "BUY", Kind: "MARKET",
		Quantity: "not-a-number", TimeInForce: "GTC",
	}
	_, err := req.ToOrder(inst, 1)
	assert.Error(t, err)
}

func TestSubmitOrderRequestToOrderLeavesPriceZeroWhenOmitted(t *testing.T) {
	ccy := testCurrency()
	inst := testInstrument(ccy)

	req := SubmitOrderRequest{
		ClientOrderID: "C-1", Symbol: inst.ID.Symbol, Venue: inst.ID.Venue,
		StrategyID: "S-1", Side: "SELL", Kind: "MARKET",
		Quantity: "3", TimeInForce: "IOC",
	}
	o, err := req.ToOrder(inst, 1)
	require.NoError(t, err)
	assert.True(t, o.Price.IsZero())
}
