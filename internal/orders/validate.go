package orders

import (
	"github.com/jclangner/nautilus-trader/pkg/coreerr"
)

// Validate checks the structural contracts §7 lists under ValidationError:
// these run synchronously at the call site and never mutate state.
func (o *Order) Validate(instrumentPricePrecision uint8) error {
	if o.Quantity.IsZero() {
		return coreerr.Validation("order %s: quantity must be positive", o.ClientOrderID)
	}
	if o.Kind.HasPrice() && o.Price.Precision() > instrumentPricePrecision {
		return coreerr.Validation("order %s: price precision %d exceeds instrument precision %d",
			o.ClientOrderID, o.Price.Precision(), instrumentPricePrecision)
	}
	if o.TimeInForce == TIFGTD && o.ExpireTimeNs == 0 {
		return coreerr.Validation("order %s: GTD order requires expire_time_ns", o.ClientOrderID)
	}
	if o.TimeInForce != TIFGTD && o.ExpireTimeNs != 0 {
		return coreerr.Validation("order %s: expire_time_ns only valid with GTD", o.ClientOrderID)
	}
	if o.DisplayQty != nil && o.DisplayQty.GreaterThan(o.Quantity) {
		return coreerr.Validation("order %s: display_qty exceeds quantity", o.ClientOrderID)
	}
	if o.PostOnly && o.Kind != KindLimit {
		return coreerr.Validation("order %s: post_only only valid for LIMIT orders", o.ClientOrderID)
	}
	if o.Kind.IsTrailing() && o.OffsetType == "" {
		return coreerr.Validation("order %s: trailing order requires an offset_type", o.ClientOrderID)
	}
	return nil
}

// List is a grouped set of orders sharing a list_id and instrument,
// submitted atomically (§3 "OrderList").
type List struct {
	ListID       string
	InstrumentID routingKey
	Orders       []*Order
}

// Validate runs Order.Validate across every member and ensures every order
// shares the list's instrument.
func (l *List) Validate(instrumentPricePrecision uint8) error {
	for _, o := range l.Orders {
		if o.InstrumentID != l.InstrumentID.InstrumentID {
			return coreerr.Validation("order list %s: order %s instrument mismatches list instrument", l.ListID, o.ClientOrderID)
		}
		if err := o.Validate(instrumentPricePrecision); err != nil {
			return err
		}
	}
	return nil
}
