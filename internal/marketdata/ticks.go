// Package marketdata holds the immutable, timestamped value records the
// exchange consumes (§3 "Market Data Types"): quote ticks, trade ticks, bars,
// and order book deltas/snapshots. Every record enforces ts_event <= ts_init
// at construction, per §5.
package marketdata

import (
	"fmt"

	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// ErrEventAfterInit is raised when a record's ts_event exceeds its ts_init,
// violating the construction-side invariant the spec requires.
var ErrEventAfterInit = fmt.Errorf("marketdata: ts_event must be <= ts_init")

func checkTimestamps(tsEvent, tsInit int64) error {
	if tsEvent > tsInit {
		return ErrEventAfterInit
	}
	return nil
}

// AggressorSide identifies which side crossed the spread to produce a trade.
type AggressorSide string

const (
	AggressorNone AggressorSide = "NONE"
	AggressorBuy  AggressorSide = "BUYER"
	AggressorSell AggressorSide = "SELLER"
)

// QuoteTick is a top-of-book bid/ask snapshot.
type QuoteTick struct {
	InstrumentID instrument.ID
	BidPrice     numerics.Price
	AskPrice     numerics.Price
	BidSize      numerics.Quantity
	AskSize      numerics.Quantity
	TsEvent      int64
	TsInit       int64
}

// NewQuoteTick validates ts_event <= ts_init before returning the tick.
func NewQuoteTick(id instrument.ID, bidPx, askPx numerics.Price, bidSz, askSz numerics.Quantity, tsEvent, tsInit int64) (QuoteTick, error) {
	if err := checkTimestamps(tsEvent, tsInit); err != nil {
		return QuoteTick{}, err
	}
	return QuoteTick{InstrumentID: id, BidPrice: bidPx, AskPrice: askPx, BidSize: bidSz, AskSize: askSz, TsEvent: tsEvent, TsInit: tsInit}, nil
}

// MidPrice returns (bid+ask)/2 at one digit more precision than the quote,
// the single explicit place the spec allows a float excursion (§4.1).
func (q QuoteTick) MidPrice() float64 {
	return (q.BidPrice.AsFloat64() + q.AskPrice.AsFloat64()) / 2
}

// TradeTick is a single executed trade print.
type TradeTick struct {
	InstrumentID instrument.ID
	Price        numerics.Price
	Size         numerics.Quantity
	Aggressor    AggressorSide
	TradeID      string
	IsHistorical bool
	TsEvent      int64
	TsInit       int64
}

// NewTradeTick validates ts_event <= ts_init before returning the tick.
func NewTradeTick(id instrument.ID, px numerics.Price, sz numerics.Quantity, aggressor AggressorSide, tradeID string, tsEvent, tsInit int64) (TradeTick, error) {
	if err := checkTimestamps(tsEvent, tsInit); err != nil {
		return TradeTick{}, err
	}
	return TradeTick{InstrumentID: id, Price: px, Size: sz, Aggressor: aggressor, TradeID: tradeID, TsEvent: tsEvent, TsInit: tsInit}, nil
}

// BarType distinguishes how a Bar's window was sliced (time-based,
// tick-count-based, etc); only the fields matching/triggering cares about
// are modeled here.
type BarType string

const (
	BarTypeTime BarType = "TIME"
	BarTypeTick BarType = "TICK"
)

// Bar is an OHLCV aggregation over a time or tick window.
type Bar struct {
	InstrumentID instrument.ID
	Type         BarType
	Open         numerics.Price
	High         numerics.Price
	Low          numerics.Price
	Close        numerics.Price
	Volume       numerics.Quantity
	TsEvent      int64
	TsInit       int64
}

// NewBar validates ts_event <= ts_init before returning the bar.
func NewBar(id instrument.ID, typ BarType, open, high, low, close numerics.Price, volume numerics.Quantity, tsEvent, tsInit int64) (Bar, error) {
	if err := checkTimestamps(tsEvent, tsInit); err != nil {
		return Bar{}, err
	}
	return Bar{InstrumentID: id, Type: typ, Open: open, High: high, Low: low, Close: close, Volume: volume, TsEvent: tsEvent, TsInit: tsInit}, nil
}

// IsBullish reports whether the bar closed above its open, which determines
// the synthetic touch order the bar-driven matching path walks (§4.3.7).
func (b Bar) IsBullish() bool { return b.Close.GreaterThan(b.Open) }
