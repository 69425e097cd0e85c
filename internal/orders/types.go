// Package orders implements the per-order finite state machine and the
// Order/OrderList value types it operates on (§3 "Order", §4.3 design notes).
package orders

import "github.com/jclangner/nautilus-trader/internal/instrument"

// Side is the trading direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Kind is the tagged-variant discriminator replacing the teacher's order
// subclass hierarchy (Design Notes, "Polymorphic Order"): a single Order
// struct carries every kind's fields, with Kind selecting which are live.
type Kind string

const (
	KindMarket               Kind = "MARKET"
	KindLimit                Kind = "LIMIT"
	KindStopMarket           Kind = "STOP_MARKET"
	KindStopLimit            Kind = "STOP_LIMIT"
	KindTrailingStopMarket   Kind = "TRAILING_STOP_MARKET"
	KindTrailingStopLimit    Kind = "TRAILING_STOP_LIMIT"
	KindMarketToLimit        Kind = "MARKET_TO_LIMIT"
)

// HasPrice reports whether this kind carries a limit price.
func (k Kind) HasPrice() bool {
	switch k {
	case KindLimit, KindStopLimit, KindTrailingStopLimit, KindMarketToLimit:
		return true
	default:
		return false
	}
}

// HasTrigger reports whether this kind carries a trigger/stop price.
func (k Kind) HasTrigger() bool {
	switch k {
	case KindStopMarket, KindStopLimit, KindTrailingStopMarket, KindTrailingStopLimit:
		return true
	default:
		return false
	}
}

// IsTrailing reports whether this kind recomputes its trigger from a
// trailing offset (§4.3.1).
func (k Kind) IsTrailing() bool {
	return k == KindTrailingStopMarket || k == KindTrailingStopLimit
}

// TimeInForce controls how long an order remains eligible to trade.
type TimeInForce string

const (
	TIFGTC          TimeInForce = "GTC"
	TIFIOC          TimeInForce = "IOC"
	TIFFOK          TimeInForce = "FOK"
	TIFGTD          TimeInForce = "GTD"
	TIFDAY          TimeInForce = "DAY"
	TIFAtTheOpen    TimeInForce = "AT_THE_OPEN"
	TIFAtTheClose   TimeInForce = "AT_THE_CLOSE"
)

// TriggerType selects which reference price a stop/trailing order compares
// its trigger price against (§4.3.1).
type TriggerType string

const (
	TriggerLast    TriggerType = "LAST"
	TriggerBid     TriggerType = "BID"
	TriggerAsk     TriggerType = "ASK"
	TriggerMid     TriggerType = "MID"
	TriggerMark    TriggerType = "MARK"
	TriggerIndex   TriggerType = "INDEX"
	TriggerBidAsk  TriggerType = "BID_ASK"
)

// OffsetType selects how a trailing stop's offset is interpreted (§ glossary
// "Trailing offset types").
type OffsetType string

const (
	OffsetPrice      OffsetType = "PRICE"
	OffsetBasisPoints OffsetType = "BASIS_POINTS"
	OffsetTicks      OffsetType = "TICKS"
	OffsetPriceTier  OffsetType = "PRICE_TIER"
)

// ContingencyType identifies which of OTO/OCO/OUO links an order to its
// linked_order_ids (§4.3.5).
type ContingencyType string

const (
	ContingencyNone ContingencyType = "NONE"
	ContingencyOTO  ContingencyType = "OTO"
	ContingencyOCO  ContingencyType = "OCO"
	ContingencyOUO  ContingencyType = "OUO"
)

// OMSType selects how the exchange resolves venue position IDs for fills
// (§4.3.4).
type OMSType string

const (
	OMSNetting  OMSType = "NETTING"
	OMSHedging  OMSType = "HEDGING"
)

// routingKey groups the routing identifiers every command and order carries.
type routingKey struct {
	InstrumentID instrument.ID
	StrategyID   string
	TraderID     string
	AccountID    string
}
