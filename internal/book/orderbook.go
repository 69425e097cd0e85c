// Package book implements the per-instrument order book (§4.2): bid/ask
// ladders at L1 (top-of-book only), L2 (price-aggregated depth), or L3
// (per-order depth), fed by OrderBookDelta/OrderBookSnapshot market data.
package book

import (
	"fmt"
	"sort"

	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/marketdata"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// Type selects how much depth detail a book retains.
type Type string

const (
	L1TBBO Type = "L1_TBBO"
	L2MBP  Type = "L2_MBP"
	L3MBO  Type = "L3_MBO"
)

// Level is a single price level: an aggregated size and, for L3 books, the
// ordered queue of individual order IDs contributing to it.
type Level struct {
	Price    numerics.Price
	Size     numerics.Quantity
	OrderIDs []string // L3 only; price/time order, earliest first
}

// ladder is a one-sided (bid or ask) price ladder. prices is kept sorted
// (descending for bids, ascending for asks) so best() is O(1) and apply is
// O(log n) + O(n) shift, which is plenty for backtest book depths.
type ladder struct {
	side       marketdata.BookSide
	prices     []int64 // sorted per side's priority order
	levels     map[int64]*Level
	precision  uint8
	descending bool
}

func newLadder(side marketdata.BookSide, precision uint8) *ladder {
	return &ladder{
		side:       side,
		levels:     make(map[int64]*Level),
		precision:  precision,
		descending: side == marketdata.BookSideBid,
	}
}

func (l *ladder) less(a, b int64) bool {
	if l.descending {
		return a > b
	}
	return a < b
}

func (l *ladder) insertSorted(raw int64) {
	i := sort.Search(len(l.prices), func(i int) bool { return !l.less(l.prices[i], raw) })
	l.prices = append(l.prices, 0)
	copy(l.prices[i+1:], l.prices[i:])
	l.prices[i] = raw
}

func (l *ladder) removeSorted(raw int64) {
	for i, p := range l.prices {
		if p == raw {
			l.prices = append(l.prices[:i], l.prices[i+1:]...)
			return
		}
	}
}

func (l *ladder) clear() {
	l.prices = nil
	l.levels = make(map[int64]*Level)
}

func (l *ladder) best() (Level, bool) {
	if len(l.prices) == 0 {
		return Level{}, false
	}
	return *l.levels[l.prices[0]], true
}

func (l *ladder) set(px numerics.Price, size numerics.Quantity) {
	raw := px.Raw()
	if size.IsZero() {
		l.remove(raw)
		return
	}
	if lvl, ok := l.levels[raw]; ok {
		lvl.Price = px
		lvl.Size = size
		return
	}
	l.levels[raw] = &Level{Price: px, Size: size}
	l.insertSorted(raw)
}

func (l *ladder) remove(raw int64) {
	if _, ok := l.levels[raw]; !ok {
		return
	}
	delete(l.levels, raw)
	l.removeSorted(raw)
}

func (l *ladder) volumeAt(px numerics.Price) numerics.Quantity {
	if lvl, ok := l.levels[px.Raw()]; ok {
		return lvl.Size
	}
	return numerics.ZeroQuantity(l.precision)
}

// addL3Order adds an individual resting order's size to its price level,
// creating the level if absent; used by L3_MBO ADD deltas.
func (l *ladder) addL3Order(px numerics.Price, size numerics.Quantity, orderID string) {
	raw := px.Raw()
	lvl, ok := l.levels[raw]
	if !ok {
		lvl = &Level{Price: px, Size: numerics.ZeroQuantity(size.Precision())}
		l.levels[raw] = lvl
		l.insertSorted(raw)
	}
	lvl.Size = lvl.Size.Add(size)
	lvl.OrderIDs = append(lvl.OrderIDs, orderID)
}

// removeL3Order removes one order's contribution from its price level,
// deleting the level entirely once empty.
func (l *ladder) removeL3Order(px numerics.Price, orderID string) {
	raw := px.Raw()
	lvl, ok := l.levels[raw]
	if !ok {
		return
	}
	for i, id := range lvl.OrderIDs {
		if id == orderID {
			lvl.OrderIDs = append(lvl.OrderIDs[:i], lvl.OrderIDs[i+1:]...)
			break
		}
	}
	if len(lvl.OrderIDs) == 0 {
		l.remove(raw)
	}
}

// OrderBook holds one instrument's bid and ask ladders and answers
// top-of-book / volume-at-price queries.
type OrderBook struct {
	InstrumentID instrument.ID
	BookType     Type
	bids         *ladder
	asks         *ladder
	precision    uint8
}

// NewOrderBook constructs an empty book for the given instrument at the
// requested depth granularity.
func NewOrderBook(id instrument.ID, bookType Type, pricePrecision uint8) *OrderBook {
	return &OrderBook{
		InstrumentID: id,
		BookType:     bookType,
		bids:         newLadder(marketdata.BookSideBid, pricePrecision),
		asks:         newLadder(marketdata.BookSideAsk, pricePrecision),
		precision:    pricePrecision,
	}
}

// ErrCrossedBook names the condition of bids and asks overlapping; per
// §4.2 a transient cross is allowed mid-delta but must not persist beyond
// one match-loop invocation. The book reports a cross through IsCrossed;
// no function in this package returns this error.
var ErrCrossedBook = fmt.Errorf("book: crossed book")

// ApplyDelta applies a single ADD/UPDATE/DELETE/CLEAR mutation.
func (b *OrderBook) ApplyDelta(d marketdata.OrderBookDelta) {
	l := b.ladderFor(d.Side)
	switch d.Action {
	case marketdata.DeltaClear:
		l.clear()
	case marketdata.DeltaDelete:
		if b.BookType == L3MBO && d.OrderID != "" {
			l.removeL3Order(d.Price, d.OrderID)
		} else {
			l.remove(d.Price.Raw())
		}
	case marketdata.DeltaAdd:
		if b.BookType == L3MBO && d.OrderID != "" {
			l.addL3Order(d.Price, d.Size, d.OrderID)
		} else {
			l.set(d.Price, d.Size)
		}
	case marketdata.DeltaUpdate:
		l.set(d.Price, d.Size)
	}
}

// ApplyDeltas applies an ordered batch of deltas.
func (b *OrderBook) ApplyDeltas(ds []marketdata.OrderBookDelta) {
	for _, d := range ds {
		b.ApplyDelta(d)
	}
}

// ApplySnapshot clears both ladders then loads the snapshot's levels
// atomically (no intermediate crossed state is ever observable).
func (b *OrderBook) ApplySnapshot(snap marketdata.OrderBookSnapshot) {
	b.bids.clear()
	b.asks.clear()
	for _, lvl := range snap.Bids {
		b.bids.set(lvl.Price, lvl.Size)
	}
	for _, lvl := range snap.Asks {
		b.asks.set(lvl.Price, lvl.Size)
	}
}

// ApplyQuote updates an L1_TBBO book from a top-of-book quote tick.
func (b *OrderBook) ApplyQuote(q marketdata.QuoteTick) {
	b.bids.clear()
	b.asks.clear()
	b.bids.set(q.BidPrice, q.BidSize)
	b.asks.set(q.AskPrice, q.AskSize)
}

func (b *OrderBook) ladderFor(side marketdata.BookSide) *ladder {
	if side == marketdata.BookSideBid {
		return b.bids
	}
	return b.asks
}

// BestBid returns the best (highest) bid level, if any.
func (b *OrderBook) BestBid() (Level, bool) { return b.bids.best() }

// BestAsk returns the best (lowest) ask level, if any.
func (b *OrderBook) BestAsk() (Level, bool) { return b.asks.best() }

// Spread returns ask-bid at top of book; ok is false if either side is empty.
func (b *OrderBook) Spread() (numerics.Price, bool) {
	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	if !okB || !okA {
		return numerics.Price{}, false
	}
	return ask.Price.Sub(bid.Price), true
}

// VolumeAt returns the aggregated size resting at an exact price on a side.
func (b *OrderBook) VolumeAt(side marketdata.BookSide, px numerics.Price) numerics.Quantity {
	return b.ladderFor(side).volumeAt(px)
}

// IsCrossed reports whether the top of book is crossed (best bid >= best ask).
func (b *OrderBook) IsCrossed() bool {
	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	if !okB || !okA {
		return false
	}
	return bid.Price.Cmp(ask.Price) >= 0
}

// FillLevel is one (price, qty) pair consumed from the book while walking
// depth to satisfy an incoming order.
type FillLevel struct {
	Price numerics.Price
	Qty   numerics.Quantity
}

// ConsumeLiquidity removes qty from the opposing side's level at px, deleting
// the level once it empties. The matching engine calls this as it walks a
// SimulateFills plan so a single process() pass never double-counts the same
// resting liquidity across multiple taker orders.
func (b *OrderBook) ConsumeLiquidity(side marketdata.BookSide, px numerics.Price, qty numerics.Quantity) {
	opposite := marketdata.BookSideAsk
	if side == marketdata.BookSideAsk {
		opposite = marketdata.BookSideBid
	}
	l := b.ladderFor(opposite)
	lvl, ok := l.levels[px.Raw()]
	if !ok {
		return
	}
	remaining, err := lvl.Size.Sub(qty)
	if err != nil {
		l.remove(px.Raw())
		return
	}
	if remaining.IsZero() {
		l.remove(px.Raw())
		return
	}
	lvl.Size = remaining
}

// SimulateFills walks the opposing side's top levels (up to maxDepth levels)
// and returns the (price, qty) pairs that would be consumed filling `qty` of
// an order on `side` — i.e. an order arriving on `side` takes liquidity from
// the *opposite* ladder.
func (b *OrderBook) SimulateFills(side marketdata.BookSide, qty numerics.Quantity, maxDepth int) []FillLevel {
	return b.SimulateFillsBounded(side, qty, maxDepth, nil)
}

// SimulateFillsBounded is SimulateFills with an optional limit price: levels
// that a LIMIT taker order on `side` could not legally cross (bid below its
// limit, ask above it) are excluded from the walk.
func (b *OrderBook) SimulateFillsBounded(side marketdata.BookSide, qty numerics.Quantity, maxDepth int, limit *numerics.Price) []FillLevel {
	opposite := marketdata.BookSideAsk
	if side == marketdata.BookSideAsk {
		opposite = marketdata.BookSideBid
	}
	l := b.ladderFor(opposite)

	var fills []FillLevel
	remaining := qty
	for i := 0; i < len(l.prices) && i < maxDepth && !remaining.IsZero(); i++ {
		lvl := l.levels[l.prices[i]]
		if limit != nil {
			if side == marketdata.BookSideBid && lvl.Price.GreaterThan(*limit) {
				break
			}
			if side == marketdata.BookSideAsk && lvl.Price.LessThan(*limit) {
				break
			}
		}
		take := remaining.Min(lvl.Size)
		fills = append(fills, FillLevel{Price: lvl.Price, Qty: take})
		remaining, _ = remaining.Sub(take)
	}
	return fills
}
