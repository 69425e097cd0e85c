package marketdata

import (
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// BookSide identifies the bid or ask side of an order book.
type BookSide string

const (
	BookSideBid BookSide = "BID"
	BookSideAsk BookSide = "ASK"
)

// DeltaAction is the operation an OrderBookDelta applies to a book level.
type DeltaAction string

const (
	DeltaAdd    DeltaAction = "ADD"
	DeltaUpdate DeltaAction = "UPDATE"
	DeltaDelete DeltaAction = "DELETE"
	DeltaClear  DeltaAction = "CLEAR"
)

// OrderBookDelta mutates a single (side, price, size[, order_id]) entry of a
// book, per §4.2.
type OrderBookDelta struct {
	InstrumentID instrument.ID
	Action       DeltaAction
	Side         BookSide
	Price        numerics.Price
	Size         numerics.Quantity
	OrderID      string // populated for L3_MBO deltas; empty for L1/L2
	TsEvent      int64
	TsInit       int64
}

// NewOrderBookDelta validates ts_event <= ts_init before returning the delta.
func NewOrderBookDelta(id instrument.ID, action DeltaAction, side BookSide, px numerics.Price, sz numerics.Quantity, orderID string, tsEvent, tsInit int64) (OrderBookDelta, error) {
	if err := checkTimestamps(tsEvent, tsInit); err != nil {
		return OrderBookDelta{}, err
	}
	return OrderBookDelta{InstrumentID: id, Action: action, Side: side, Price: px, Size: sz, OrderID: orderID, TsEvent: tsEvent, TsInit: tsInit}, nil
}

// OrderBookSnapshot is a full-depth replacement for one side or both sides of
// a book; applying it clears then loads atomically (§4.2).
type OrderBookSnapshot struct {
	InstrumentID instrument.ID
	Bids         []BookLevelData
	Asks         []BookLevelData
	TsEvent      int64
	TsInit       int64
}

// BookLevelData is one (price, aggregated size) pair within a snapshot.
type BookLevelData struct {
	Price numerics.Price
	Size  numerics.Quantity
}

// NewOrderBookSnapshot validates ts_event <= ts_init before returning the
// snapshot.
func NewOrderBookSnapshot(id instrument.ID, bids, asks []BookLevelData, tsEvent, tsInit int64) (OrderBookSnapshot, error) {
	if err := checkTimestamps(tsEvent, tsInit); err != nil {
		return OrderBookSnapshot{}, err
	}
	return OrderBookSnapshot{InstrumentID: id, Bids: bids, Asks: asks, TsEvent: tsEvent, TsInit: tsInit}, nil
}
