// Package exchange implements the simulated exchange orchestrator (§4.4):
// the instrument/account/matching-engine owner that applies latency to
// inbound commands, drives each instrument's matching engine from market
// data, and generates venue-side identifiers.
package exchange

import (
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// CommandKind discriminates the TradingCommand variants §6 names, used by
// the LatencyModel to charge a distinct delay per kind.
type CommandKind string

const (
	CmdSubmitOrder     CommandKind = "SUBMIT_ORDER"
	CmdSubmitOrderList CommandKind = "SUBMIT_ORDER_LIST"
	CmdModifyOrder     CommandKind = "MODIFY_ORDER"
	CmdCancelOrder     CommandKind = "CANCEL_ORDER"
	CmdCancelAllOrders CommandKind = "CANCEL_ALL_ORDERS"
)

// Command is the tagged variant every TradingCommand reduces to (Design
// Notes "Polymorphic Order" applies equally to commands): one struct, one
// Kind discriminator, only the fields the kind uses are live.
type Command struct {
	Kind         CommandKind
	TraderID     string
	StrategyID   string
	InstrumentID instrument.ID
	ClientID     string
	CommandID    string // UUIDv4
	TsInit       int64

	// SubmitOrder / SubmitOrderList
	Order               *orders.Order
	OrderList           *orders.List
	PositionID          string
	CheckPositionExists bool

	// ModifyOrder
	ClientOrderID string
	NewQuantity   *numerics.Quantity
	NewPrice      *numerics.Price
	NewTrigger    *numerics.Price

	// CancelOrder carries ClientOrderID above; VenueOrderID is informational
	// only since the engine's index is keyed by client_order_id.
	VenueOrderID string
}
