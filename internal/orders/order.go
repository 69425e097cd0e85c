package orders

import (
	"fmt"

	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// Status is a point in the order status lattice (§3 "Order FSM legal
// transitions").
type Status string

const (
	StatusInitialized    Status = "INITIALIZED"
	StatusDenied         Status = "DENIED"
	StatusSubmitted      Status = "SUBMITTED"
	StatusAccepted       Status = "ACCEPTED"
	StatusRejected       Status = "REJECTED"
	StatusPendingUpdate  Status = "PENDING_UPDATE"
	StatusPendingCancel  Status = "PENDING_CANCEL"
	StatusTriggered      Status = "TRIGGERED"
	StatusPartiallyFilled Status = "PARTIALLY_FILLED"
	StatusCanceled       Status = "CANCELED"
	StatusExpired        Status = "EXPIRED"
	StatusFilled         Status = "FILLED"
)

// IsTerminal reports whether an order in this status can make no further
// transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDenied, StatusRejected, StatusCanceled, StatusExpired, StatusFilled:
		return true
	default:
		return false
	}
}

// transitionTable enumerates every legal (from -> {to...}) edge of the
// status lattice, transcribed from §3, plus the PENDING_CANCEL -> CANCELED
// edge a completed cancel request takes. PENDING_UPDATE/PENDING_CANCEL's
// self-loop and previous_status revert are not table edges; they are
// handled specially in Order.Transition.
var transitionTable = map[Status]map[Status]bool{
	StatusInitialized: set(StatusDenied, StatusSubmitted, StatusAccepted, StatusRejected, StatusCanceled),
	StatusSubmitted:   set(StatusRejected, StatusCanceled, StatusAccepted, StatusPartiallyFilled, StatusFilled),
	StatusAccepted: set(StatusRejected, StatusPendingUpdate, StatusPendingCancel, StatusCanceled,
		StatusTriggered, StatusExpired, StatusPartiallyFilled, StatusFilled),
	StatusTriggered: set(StatusRejected, StatusPendingUpdate, StatusPendingCancel, StatusCanceled,
		StatusExpired, StatusPartiallyFilled, StatusFilled),
	StatusPartiallyFilled: set(StatusRejected, StatusPendingUpdate, StatusPendingCancel, StatusCanceled,
		StatusTriggered, StatusExpired, StatusPartiallyFilled, StatusFilled),
	StatusPendingCancel: set(StatusCanceled),
	StatusDenied:   {},
	StatusRejected: {},
	StatusCanceled: {},
	StatusExpired:  {},
	StatusFilled:   {},
}

func set(statuses ...Status) map[Status]bool {
	m := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		m[s] = true
	}
	return m
}

// ErrInvalidStateTrigger is raised whenever Order.Transition is asked to make
// a move absent from the legal-transition table (§7 "InvalidStateTrigger").
type ErrInvalidStateTrigger struct {
	From, To Status
}

func (e *ErrInvalidStateTrigger) Error() string {
	return fmt.Sprintf("orders: invalid transition %s -> %s", e.From, e.To)
}

// Order is the single tagged-variant type every order kind is represented
// by (Design Notes: "Polymorphic Order"); Kind selects which of the
// kind-specific fields are meaningful.
type Order struct {
	ClientOrderID  string
	VenueOrderID   string // empty until ACCEPTED
	InstrumentID   instrument.ID
	StrategyID     string
	TraderID       string
	AccountID      string
	PositionID     string
	OrderListID    string
	ParentOrderID  string
	LinkedOrderIDs []string

	Side Side
	Kind Kind

	Quantity  numerics.Quantity
	FilledQty numerics.Quantity

	Price        numerics.Price // live iff Kind.HasPrice()
	TriggerPrice numerics.Price // live iff Kind.HasTrigger()
	TrailingOffset numerics.Price
	OffsetType     OffsetType
	TriggerType    TriggerType

	TimeInForce  TimeInForce
	ExpireTimeNs int64 // required iff TimeInForce == GTD

	PostOnly   bool
	ReduceOnly bool
	DisplayQty *numerics.Quantity // iceberg; <= Quantity

	ContingencyType ContingencyType

	Status         Status
	PreviousStatus Status
	Events         []events.Event
	TradeIDs       []string

	AvgPx         numerics.Price
	Slippage      numerics.Price
	LiquiditySide instrument.LiquiditySide

	TsInit int64
	TsLast int64
}

// LeavesQty returns quantity - filled_qty, the invariant the spec requires
// to hold at all times.
func (o *Order) LeavesQty() numerics.Quantity {
	leaves, err := o.Quantity.Sub(o.FilledQty)
	if err != nil {
		// FilledQty can never legitimately exceed Quantity; a caller that hits
		// this has a bug upstream (double-applied fill), not a data problem.
		panic(fmt.Sprintf("orders: filled_qty exceeds quantity for %s: %v", o.ClientOrderID, err))
	}
	return leaves
}

// IsFullyFilled reports whether leaves_qty has reached zero.
func (o *Order) IsFullyFilled() bool {
	return o.FilledQty.Cmp(o.Quantity) >= 0
}

// Transition moves the order to `to`, recording `previous_status`, and
// appending ev to the order's own event trail. It returns
// ErrInvalidStateTrigger rather than mutating state if the move is illegal.
func (o *Order) Transition(to Status, ev events.Event) error {
	if !o.legalMove(to) {
		return &ErrInvalidStateTrigger{From: o.Status, To: to}
	}
	o.PreviousStatus = o.Status
	o.Status = to
	o.Events = append(o.Events, ev)
	o.TsLast = ev.EventTsEvent()
	return nil
}

func (o *Order) legalMove(to Status) bool {
	if o.Status.IsTerminal() {
		return false
	}
	// PENDING_UPDATE/PENDING_CANCEL may self-loop (concurrent requests) or
	// revert to whatever status they superseded, on top of the static table.
	if o.Status == StatusPendingUpdate || o.Status == StatusPendingCancel {
		if to == o.Status || to == o.PreviousStatus {
			return true
		}
	}
	return transitionTable[o.Status][to]
}

// RevertPending reverts a PENDING_UPDATE/PENDING_CANCEL order back to the
// status it superseded, on ModifyRejected/CancelRejected (§3).
func (o *Order) RevertPending(ev events.Event) error {
	if o.Status != StatusPendingUpdate && o.Status != StatusPendingCancel {
		return &ErrInvalidStateTrigger{From: o.Status, To: o.PreviousStatus}
	}
	return o.Transition(o.PreviousStatus, ev)
}

// ApplyFill folds one (price, qty) fill into avg_px/filled_qty/leaves_qty
// and transitions to PARTIALLY_FILLED or FILLED, per §4.3.4.
func (o *Order) ApplyFill(lastPx numerics.Price, lastQty numerics.Quantity, tradeID string, ev events.Event) error {
	newFilled := o.FilledQty.Add(lastQty)
	// avg_px reports one digit more than the fill price (capped at
	// MaxPrecision), so 3@100.02 + 7@100.04 averages to 100.034.
	avgPrecision := lastPx.Precision() + 1
	if avgPrecision > numerics.MaxPrecision {
		avgPrecision = numerics.MaxPrecision
	}
	newAvg := numerics.WeightedAvgPrice(o.FilledQty, o.AvgPx, lastQty, lastPx, newFilled, avgPrecision)

	target := StatusPartiallyFilled
	if newFilled.Cmp(o.Quantity) >= 0 {
		target = StatusFilled
	}
	if err := o.Transition(target, ev); err != nil {
		return err
	}

	o.FilledQty = newFilled
	o.AvgPx = newAvg
	o.TradeIDs = append(o.TradeIDs, tradeID)
	o.Slippage = o.computeSlippage()
	return nil
}

// computeSlippage returns the signed difference between avg_px and the
// order's reference price (limit price if present, else trigger price),
// per the glossary definition.
func (o *Order) computeSlippage() numerics.Price {
	ref := o.Price
	if o.Kind.HasTrigger() && !o.Kind.HasPrice() {
		ref = o.TriggerPrice
	}
	if ref.IsZero() && o.TriggerPrice.Raw() != 0 {
		ref = o.TriggerPrice
	}
	if o.Side == SideBuy {
		return o.AvgPx.Sub(ref)
	}
	return ref.Sub(o.AvgPx)
}
