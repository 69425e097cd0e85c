package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

var usd = numerics.Currency{Code: "USD", Precision: 2, Kind: numerics.CurrencyFiat, Name: "US Dollar"}

func newFlatPosition(t *testing.T) *Position {
	t.Helper()
	zero, err := numerics.NewQuantity(0, 0)
	require.NoError(t, err)
	return &Position{
		ID:           "P-1",
		InstrumentID: instrument.ID{Symbol: "BTCUSD", Venue: "SIM"},
		Side:         SideFlat,
		NetQty:       zero,
		RealizedPnL:  numerics.ZeroMoney(usd),
	}
}

func TestApplyFillOpensPositionFromFlat(t *testing.T) {
	p := newFlatPosition(t)
	qty, _ := numerics.NewQuantity(5, 0)
	px, _ := numerics.NewPrice(10000, 2)

	p.ApplyFill(SideLong, qty, px, "T-1", usd, 1)

	assert.Equal(t, SideLong, p.Side)
	assert.Equal(t, "5", p.NetQty.String())
	assert.Equal(t, "100.00", p.AvgOpenPx.String())
	assert.False(t, p.IsFlat())
}

func TestApplyFillSameDirectionAveragesPrice(t *testing.T) {
	p := newFlatPosition(t)
	q1, _ := numerics.NewQuantity(5, 0)
	px1, _ := numerics.NewPrice(10000, 2)
	p.ApplyFill(SideLong, q1, px1, "T-1", usd, 1)

	q2, _ := numerics.NewQuantity(5, 0)
	px2, _ := numerics.NewPrice(10200, 2)
	p.ApplyFill(SideLong, q2, px2, "T-2", usd, 2)

	assert.Equal(t, "10", p.NetQty.String())
	assert.Equal(t, "101.00", p.AvgOpenPx.String())
}

func TestApplyFillOppositeDirectionRealizesPnLAndCloses(t *testing.T) {
	p := newFlatPosition(t)
	qOpen, _ := numerics.NewQuantity(5, 0)
	pxOpen, _ := numerics.NewPrice(10000, 2)
	p.ApplyFill(SideLong, qOpen, pxOpen, "T-1", usd, 1)

	qClose, _ := numerics.NewQuantity(5, 0)
	pxClose, _ := numerics.NewPrice(10500, 2)
	p.ApplyFill(SideShort, qClose, pxClose, "T-2", usd, 2)

	assert.True(t, p.IsFlat())
	assert.Equal(t, int64(2), p.ClosedAtNs)
	// (105.00 - 100.00) * 5 = 25.00
	assert.Equal(t, "25.00", p.RealizedPnL.Amount().String())
}

func TestApplyFillOppositeDirectionFlipsWhenOversized(t *testing.T) {
	p := newFlatPosition(t)
	qOpen, _ := numerics.NewQuantity(5, 0)
	pxOpen, _ := numerics.NewPrice(10000, 2)
	p.ApplyFill(SideLong, qOpen, pxOpen, "T-1", usd, 1)

	qFlip, _ := numerics.NewQuantity(8, 0)
	pxFlip, _ := numerics.NewPrice(10500, 2)
	p.ApplyFill(SideShort, qFlip, pxFlip, "T-2", usd, 2)

	assert.Equal(t, SideShort, p.Side)
	assert.Equal(t, "3", p.NetQty.String())
	assert.Equal(t, "105.00", p.AvgOpenPx.String())
	assert.Equal(t, int64(0), p.ClosedAtNs)
}
