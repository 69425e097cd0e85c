package reports

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jclangner/nautilus-trader/internal/account"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

func TestOrderStatusReportToDictFromDictRoundTrip(t *testing.T) {
	qty, _ := numerics.NewQuantity(5, 0)
	px, _ := numerics.NewPrice(10000, 2)
	o := &orders.Order{
		ClientOrderID: "C-1",
		VenueOrderID:  "V-1",
		InstrumentID:  instrument.ID{Symbol: "BTC-USD", Venue: "SIM"},
		Status:        orders.StatusFilled,
		Side:          orders.SideBuy,
		Kind:          orders.KindLimit,
		Quantity:      qty,
		AvgPx:         px,
		TsLast:        99,
	}
	report := NewOrderStatusReport(o)

	var round OrderStatusReport
	require.NoError(t, round.FromDict(report.ToDict()))
	assert.Equal(t, report.ClientOrderID, round.ClientOrderID)
	assert.Equal(t, report.InstrumentID, round.InstrumentID)
	assert.Equal(t, report.Status, round.Status)
	assert.Equal(t, report.AvgPx, round.AvgPx)
	assert.Equal(t, report.TsLast, round.TsLast)
}

func TestOrderStatusReportMarshalUnmarshalJSON(t *testing.T) {
	qty, _ := numerics.NewQuantity(5, 0)
	o := &orders.Order{
		ClientOrderID: "C-1",
		InstrumentID:  instrument.ID{Symbol: "BTC-USD", Venue: "SIM"},
		Status:        orders.StatusInitialized,
		Side:          orders.SideSell,
		Kind:          orders.KindMarket,
		Quantity:      qty,
	}
	report := NewOrderStatusReport(o)

	b, err := json.Marshal(report)
	require.NoError(t, err)

	var round OrderStatusReport
	require.NoError(t, json.Unmarshal(b, &round))
	assert.Equal(t, report.ClientOrderID, round.ClientOrderID)
	assert.Equal(t, report.Side, round.Side)
	assert.Equal(t, report.Kind, round.Kind)
}

func TestPositionStatusReportRoundTrip(t *testing.T) {
	usd := numerics.Currency{Code: "USD", Precision: 2, Kind: numerics.CurrencyFiat, Name: "US Dollar"}
	netQty, _ := numerics.NewQuantity(3, 0)
	avgPx, _ := numerics.NewPrice(10500, 2)
	p := &account.Position{
		ID:           "P-1",
		InstrumentID: instrument.ID{Symbol: "BTC-USD", Venue: "SIM"},
		Side:         account.SideLong,
		NetQty:       netQty,
		AvgOpenPx:    avgPx,
		RealizedPnL:  numerics.NewMoney(2500, usd),
		OpenedAtNs:   10,
	}
	report := NewPositionStatusReport(p)

	var round PositionStatusReport
	require.NoError(t, round.FromDict(report.ToDict()))
	assert.Equal(t, report.PositionID, round.PositionID)
	assert.Equal(t, report.Side, round.Side)
	assert.Equal(t, report.NetQty, round.NetQty)
	assert.Equal(t, report.RealizedPnL, round.RealizedPnL)
	assert.Equal(t, "25.00", round.RealizedPnL)
}

func TestExecutionMassStatusToDictAggregatesAllReportKinds(t *testing.T) {
	mass := ExecutionMassStatus{
		OrderReports:    []OrderStatusReport{{ClientOrderID: "C-1"}},
		TradeReports:    []TradeReport{{TradeID: "T-1"}},
		PositionReports: []PositionStatusReport{{PositionID: "P-1"}},
	}
	d := mass.ToDict()
	assert.Len(t, d["order_reports"], 1)
	assert.Len(t, d["trade_reports"], 1)
	assert.Len(t, d["position_reports"], 1)
}
