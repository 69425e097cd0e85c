package exchange

import (
	"fmt"

	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// omsPositionResolver implements matching.PositionResolver per §4.3.4
// "_get_position_id": NETTING derives a stable ID from (instrument,
// strategy) so every fill on that pair settles into one position; HEDGING
// derives a fresh ID per order from (instrument, client_order_id). Neither
// path draws from SeededIDGenerator's position counter.
type omsPositionResolver struct {
	oms orders.OMSType
}

func newOMSPositionResolver(oms orders.OMSType) *omsPositionResolver {
	return &omsPositionResolver{oms: oms}
}

func (r *omsPositionResolver) ResolvePositionID(clientOrderID string, instrumentID instrument.ID, strategyID string) string {
	if r.oms == orders.OMSHedging {
		return fmt.Sprintf("P-%s-%s", instrumentID.String(), clientOrderID)
	}
	return fmt.Sprintf("P-%s-%s", instrumentID.String(), strategyID)
}
