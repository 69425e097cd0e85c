// Package events defines the order lifecycle events the core emits (§6
// "Events emitted"). Each event is an immutable value record carrying the
// minimum data needed to explain the transition it represents; Order keeps
// its own event trail (Design Notes: "store events in a per-order vector
// owned by the order", never a back-reference from event to order).
package events

import "github.com/jclangner/nautilus-trader/internal/instrument"

// Kind names an event's concrete type for logging, serialization, and the
// FSM trigger lookup in package orders.
type Kind string

const (
	KindInitialized     Kind = "OrderInitialized"
	KindDenied          Kind = "OrderDenied"
	KindSubmitted       Kind = "OrderSubmitted"
	KindAccepted        Kind = "OrderAccepted"
	KindRejected        Kind = "OrderRejected"
	KindPendingUpdate   Kind = "OrderPendingUpdate"
	KindPendingCancel   Kind = "OrderPendingCancel"
	KindModifyRejected  Kind = "OrderModifyRejected"
	KindCancelRejected  Kind = "OrderCancelRejected"
	KindUpdated         Kind = "OrderUpdated"
	KindTriggered       Kind = "OrderTriggered"
	KindCanceled        Kind = "OrderCanceled"
	KindExpired         Kind = "OrderExpired"
	KindFilled          Kind = "OrderFilled"
)

// Event is implemented by every concrete lifecycle event.
type Event interface {
	EventKind() Kind
	ClientOrderID() string
	EventTsEvent() int64
	EventTsInit() int64
}

// Base carries the fields every event shares. It is exported so concrete
// event structs in other packages can embed it directly.
type Base struct {
	ClientOrderIDValue string `json:"client_order_id"`
	TsEvent            int64  `json:"ts_event"`
	TsInit             int64  `json:"ts_init"`
}

func (b Base) ClientOrderID() string { return b.ClientOrderIDValue }
func (b Base) EventTsEvent() int64   { return b.TsEvent }
func (b Base) EventTsInit() int64    { return b.TsInit }

// NewBase builds the shared Base fields so sibling packages (orders,
// matching, exchange) don't repeat them by hand at every call site.
func NewBase(clientOrderID string, tsEvent, tsInit int64) Base {
	return Base{ClientOrderIDValue: clientOrderID, TsEvent: tsEvent, TsInit: tsInit}
}

type OrderInitialized struct {
	Base
	InstrumentID instrument.ID
}

func (e OrderInitialized) EventKind() Kind { return KindInitialized }

type OrderDenied struct {
	Base
	Reason string
}

func (e OrderDenied) EventKind() Kind { return KindDenied }

type OrderSubmitted struct{ Base }

func (e OrderSubmitted) EventKind() Kind { return KindSubmitted }

type OrderAccepted struct {
	Base
	VenueOrderID string
}

func (e OrderAccepted) EventKind() Kind { return KindAccepted }

type OrderRejected struct {
	Base
	Reason string
}

func (e OrderRejected) EventKind() Kind { return KindRejected }

type OrderPendingUpdate struct{ Base }

func (e OrderPendingUpdate) EventKind() Kind { return KindPendingUpdate }

type OrderPendingCancel struct{ Base }

func (e OrderPendingCancel) EventKind() Kind { return KindPendingCancel }

type OrderModifyRejected struct {
	Base
	Reason string
}

func (e OrderModifyRejected) EventKind() Kind { return KindModifyRejected }

type OrderCancelRejected struct {
	Base
	Reason string
}

func (e OrderCancelRejected) EventKind() Kind { return KindCancelRejected }

// OrderUpdated records a successful ModifyOrder: any of Price/Quantity/
// TriggerPrice may be absent (empty string) if that field was unchanged.
type OrderUpdated struct {
	Base
	VenueOrderID  string
	Quantity      string
	Price         string
	TriggerPrice  string
}

func (e OrderUpdated) EventKind() Kind { return KindUpdated }

type OrderTriggered struct{ Base }

func (e OrderTriggered) EventKind() Kind { return KindTriggered }

type OrderCanceled struct {
	Base
	VenueOrderID string
	Reason       string
}

func (e OrderCanceled) EventKind() Kind { return KindCanceled }

type OrderExpired struct {
	Base
	VenueOrderID string
}

func (e OrderExpired) EventKind() Kind { return KindExpired }

// OrderFilled is emitted per fill (§4.3.4); LastQty/LastPx/AvgPx/Commission
// are decimal strings so the event carries its own precision, per §6's
// "quantities and prices as decimal strings preserving precision".
type OrderFilled struct {
	Base
	TradeID         string
	VenueOrderID    string
	VenuePositionID string
	InstrumentID    instrument.ID
	Side            string // BUY or SELL, the order's own trading side
	LastQty         string
	LastPx          string
	Commission      string
	CommissionCcy   string
	LiquiditySide   string
	AvgPx           string
}

func (e OrderFilled) EventKind() Kind { return KindFilled }
