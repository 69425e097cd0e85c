package book

import (
	"testing"

	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/marketdata"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func px(t *testing.T, units int64, precision uint8) numerics.Price {
	t.Helper()
	p, err := numerics.NewPrice(units, precision)
	require.NoError(t, err)
	return p
}

func qty(t *testing.T, units int64, precision uint8) numerics.Quantity {
	t.Helper()
	q, err := numerics.NewQuantity(units, precision)
	require.NoError(t, err)
	return q
}

func TestOrderBookApplyDeltaMaintainsPriority(t *testing.T) {
	id := instrument.ID{Symbol: "BTCUSD", Venue: "SIM"}
	ob := NewOrderBook(id, L2MBP, 2)

	mkDelta := func(side marketdata.BookSide, action marketdata.DeltaAction, p int64, sz int64) marketdata.OrderBookDelta {
		d, err := marketdata.NewOrderBookDelta(id, action, side, px(t, p, 2), qty(t, sz, 0), "", 1, 1)
		require.NoError(t, err)
		return d
	}

	ob.ApplyDelta(mkDelta(marketdata.BookSideBid, marketdata.DeltaAdd, 10000, 10))
	ob.ApplyDelta(mkDelta(marketdata.BookSideBid, marketdata.DeltaAdd, 10001, 5))
	ob.ApplyDelta(mkDelta(marketdata.BookSideAsk, marketdata.DeltaAdd, 10002, 3))
	ob.ApplyDelta(mkDelta(marketdata.BookSideAsk, marketdata.DeltaAdd, 10003, 5))

	bestBid, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, "100.01", bestBid.Price.String())

	bestAsk, ok := ob.BestAsk()
	require.True(t, ok)
	assert.Equal(t, "100.02", bestAsk.Price.String())

	spread, ok := ob.Spread()
	require.True(t, ok)
	assert.Equal(t, "0.01", spread.String())
}

func TestOrderBookSimulateFillsWalksDepth(t *testing.T) {
	id := instrument.ID{Symbol: "BTCUSD", Venue: "SIM"}
	ob := NewOrderBook(id, L2MBP, 2)

	snap, err := marketdata.NewOrderBookSnapshot(id, nil, []marketdata.BookLevelData{
		{Price: px(t, 10002, 2), Size: qty(t, 3, 0)},
		{Price: px(t, 10003, 2), Size: qty(t, 5, 0)},
	}, 1, 1)
	require.NoError(t, err)
	ob.ApplySnapshot(snap)

	fills := ob.SimulateFills(marketdata.BookSideBid, qty(t, 6, 0), 10)
	require.Len(t, fills, 2)
	assert.Equal(t, "3", fills[0].Qty.String())
	assert.Equal(t, "100.02", fills[0].Price.String())
	assert.Equal(t, "3", fills[1].Qty.String())
	assert.Equal(t, "100.03", fills[1].Price.String())
}

func TestOrderBookDetectsCrossedBook(t *testing.T) {
	id := instrument.ID{Symbol: "BTCUSD", Venue: "SIM"}
	ob := NewOrderBook(id, L1TBBO, 2)

	q, err := marketdata.NewQuoteTick(id, px(t, 10005, 2), px(t, 10001, 2), qty(t, 1, 0), qty(t, 1, 0), 1, 1)
	require.NoError(t, err)
	ob.ApplyQuote(q)

	assert.True(t, ob.IsCrossed())
}
