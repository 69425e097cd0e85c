package exchange

import (
	"fmt"

	"github.com/jclangner/nautilus-trader/internal/instrument"
)

// SeededIDGenerator produces venue_order_id/venue_position_id/trade_id
// values as deterministic functions of (seed, counter) (§4.4 "Identifier
// generation"): per-instrument monotonic counters for order/position IDs, a
// single global counter for trade IDs, so replaying the same seed and event
// stream reproduces byte-identical IDs.
type SeededIDGenerator struct {
	seed            uint64
	orderCounters   map[instrument.ID]uint64
	positionCounters map[instrument.ID]uint64
	tradeCounter    uint64
}

// NewSeededIDGenerator builds a generator rooted at seed.
func NewSeededIDGenerator(seed uint64) *SeededIDGenerator {
	return &SeededIDGenerator{
		seed:            seed,
		orderCounters:   make(map[instrument.ID]uint64),
		positionCounters: make(map[instrument.ID]uint64),
	}
}

// NextVenueOrderID implements matching.IDGenerator.
func (g *SeededIDGenerator) NextVenueOrderID(id instrument.ID) string {
	g.orderCounters[id]++
	return fmt.Sprintf("O-%d-%s-%d", g.seed, id.String(), g.orderCounters[id])
}

// NextPositionSeq returns the next per-instrument position counter value.
// omsPositionResolver does not call it: position IDs are derived from the
// instrument and the strategy or client_order_id instead.
func (g *SeededIDGenerator) NextPositionSeq(id instrument.ID) uint64 {
	g.positionCounters[id]++
	return g.positionCounters[id]
}

// NextTradeID implements matching.IDGenerator.
func (g *SeededIDGenerator) NextTradeID() string {
	g.tradeCounter++
	return fmt.Sprintf("T-%d-%d", g.seed, g.tradeCounter)
}
