package orders

import (
	"testing"

	"github.com/jclangner/nautilus-trader/internal/events"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	qty, err := numerics.NewQuantity(10, 0)
	require.NoError(t, err)
	px, err := numerics.NewPrice(10001, 2)
	require.NoError(t, err)
	return &Order{
		ClientOrderID: "O-1",
		InstrumentID:  instrument.ID{Symbol: "BTCUSD", Venue: "SIM"},
		Side:          SideBuy,
		Kind:          KindLimit,
		Quantity:      qty,
		Price:         px,
		TimeInForce:   TIFGTC,
		Status:        StatusInitialized,
	}
}

func TestOrderLegalTransitionPath(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.Transition(StatusSubmitted, events.OrderSubmitted{Base: events.NewBase(o.ClientOrderID, 1, 1)}))
	require.NoError(t, o.Transition(StatusAccepted, events.OrderAccepted{Base: events.NewBase(o.ClientOrderID, 2, 2), VenueOrderID: "V-1"}))
	assert.Equal(t, StatusAccepted, o.Status)
	assert.Equal(t, StatusSubmitted, o.PreviousStatus)
}

func TestOrderIllegalTransitionRejected(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Transition(StatusSubmitted, events.OrderSubmitted{Base: events.NewBase(o.ClientOrderID, 1, 1)}))

	err := o.Transition(StatusTriggered, events.OrderTriggered{Base: events.NewBase(o.ClientOrderID, 2, 2)})
	var fsmErr *ErrInvalidStateTrigger
	assert.ErrorAs(t, err, &fsmErr)
	assert.Equal(t, StatusSubmitted, o.Status) // unchanged
}

func TestTerminalStatusAcceptsNoFurtherTransitions(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Transition(StatusSubmitted, events.OrderSubmitted{Base: events.NewBase(o.ClientOrderID, 1, 1)}))
	require.NoError(t, o.Transition(StatusCanceled, events.OrderCanceled{Base: events.NewBase(o.ClientOrderID, 2, 2)}))

	err := o.Transition(StatusAccepted, events.OrderAccepted{Base: events.NewBase(o.ClientOrderID, 3, 3)})
	assert.Error(t, err)
}

func TestPendingUpdateRevertsOnReject(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Transition(StatusSubmitted, events.OrderSubmitted{Base: events.NewBase(o.ClientOrderID, 1, 1)}))
	require.NoError(t, o.Transition(StatusAccepted, events.OrderAccepted{Base: events.NewBase(o.ClientOrderID, 2, 2)}))
	require.NoError(t, o.Transition(StatusPendingUpdate, events.OrderPendingUpdate{Base: events.NewBase(o.ClientOrderID, 3, 3)}))

	require.NoError(t, o.RevertPending(events.OrderModifyRejected{Base: events.NewBase(o.ClientOrderID, 4, 4), Reason: "not found"}))
	assert.Equal(t, StatusAccepted, o.Status)
}

func TestApplyFillAveragesPriceAndTransitions(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Transition(StatusSubmitted, events.OrderSubmitted{Base: events.NewBase(o.ClientOrderID, 1, 1)}))
	require.NoError(t, o.Transition(StatusAccepted, events.OrderAccepted{Base: events.NewBase(o.ClientOrderID, 2, 2)}))

	q3, _ := numerics.NewQuantity(3, 0)
	p1, _ := numerics.NewPrice(10002, 2)
	require.NoError(t, o.ApplyFill(p1, q3, "T-1", events.OrderFilled{Base: events.NewBase(o.ClientOrderID, 3, 3)}))
	assert.Equal(t, StatusPartiallyFilled, o.Status)

	q7, _ := numerics.NewQuantity(7, 0)
	p2, _ := numerics.NewPrice(10004, 2)
	require.NoError(t, o.ApplyFill(p2, q7, "T-2", events.OrderFilled{Base: events.NewBase(o.ClientOrderID, 4, 4)}))
	assert.Equal(t, StatusFilled, o.Status)
	assert.True(t, o.IsFullyFilled())

	// avg_px = (3*100.02 + 7*100.04)/10 = 100.034
	assert.Equal(t, "100.034", o.AvgPx.String())
}

func TestDisplayQtyExceedsQuantityRejectedByValidate(t *testing.T) {
	o := newTestOrder(t)
	over, _ := numerics.NewQuantity(20, 0)
	o.DisplayQty = &over

	err := o.Validate(2)
	assert.Error(t, err)
}
