package exchange

import (
	"fmt"

	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// SubmitOrderRequest is the boundary DTO a caller fills in instead of
// constructing an orders.Order/Command by hand; struct tags carry the
// go-playground/validator/v10 rules the teacher's OrderRequest DTO uses at
// its own API boundary (§6 "Validation").
type SubmitOrderRequest struct {
	ClientOrderID string `json:"client_order_id" validate:"required"`
	Symbol        string `json:"symbol" validate:"required,venuesymbol"`
	Venue         string `json:"venue" validate:"required,venuesymbol"`
	StrategyID    string `json:"strategy_id" validate:"required"`
	Side          string `json:"side" validate:"required,oneof=BUY SELL"`
	Kind          string `json:"kind" validate:"required"`
	Quantity      string `json:"quantity" validate:"required,decimal"`
	Price         string `json:"price,omitempty"`
	TriggerPrice  string `json:"trigger_price,omitempty"`
	TimeInForce   string `json:"time_in_force" validate:"required,oneof=GTC GTD IOC FOK DAY AT_THE_OPEN AT_THE_CLOSE"`
	PostOnly      bool   `json:"post_only,omitempty"`
	ReduceOnly    bool   `json:"reduce_only,omitempty"`
}

// ToOrder converts a validated request into an orders.Order ready for
// exchange.Command.Order. The caller must run Validator.Validate on req
// first; ToOrder only re-parses decimal fields, it does not re-check tags.
func (req SubmitOrderRequest) ToOrder(inst *instrument.Instrument, tsInit int64) (*orders.Order, error) {
	qty, err := numerics.ParseQuantity(req.Quantity, inst.SizePrecision)
	if err != nil {
		return nil, fmt.Errorf("exchange: invalid quantity: %w", err)
	}

	o := &orders.Order{
		ClientOrderID: req.ClientOrderID,
		InstrumentID:  inst.ID,
		StrategyID:    req.StrategyID,
		Side:          orders.Side(req.Side),
		Kind:          orders.Kind(req.Kind),
		Quantity:      qty,
		TimeInForce:   orders.TimeInForce(req.TimeInForce),
		PostOnly:      req.PostOnly,
		ReduceOnly:    req.ReduceOnly,
		Status:        orders.StatusInitialized,
		TsInit:        tsInit,
	}

	if req.Price != "" {
		px, err := numerics.ParsePrice(req.Price, inst.PricePrecision)
		if err != nil {
			return nil, fmt.Errorf("exchange: invalid price: %w", err)
		}
		o.Price = px
	}
	if req.TriggerPrice != "" {
		trig, err := numerics.ParsePrice(req.TriggerPrice, inst.PricePrecision)
		if err != nil {
			return nil, fmt.Errorf("exchange: invalid trigger_price: %w", err)
		}
		o.TriggerPrice = trig
	}
	return o, nil
}
