package exchange

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

func TestFixedLatencyModelNoJitterReturnsBaseExactly(t *testing.T) {
	m := NewFixedLatencyModel(50*time.Millisecond, 0, rand.New(rand.NewSource(1)))
	for _, k := range []CommandKind{CmdSubmitOrder, CmdCancelOrder, CmdModifyOrder} {
		assert.Equal(t, 50*time.Millisecond, m.Delay(k))
	}
}

func TestFixedLatencyModelJitterStaysWithinBounds(t *testing.T) {
	m := NewFixedLatencyModel(10*time.Millisecond, 5*time.Millisecond, rand.New(rand.NewSource(7)))
	for i := 0; i < 50; i++ {
		d := m.Delay(CmdSubmitOrder)
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 15*time.Millisecond)
	}
}

func TestPerKindLatencyModelFallsBackToDefault(t *testing.T) {
	m := &PerKindLatencyModel{
		Default: 100 * time.Millisecond,
		ByKind:  map[CommandKind]time.Duration{CmdCancelOrder: 5 * time.Millisecond},
	}
	assert.Equal(t, 5*time.Millisecond, m.Delay(CmdCancelOrder))
	assert.Equal(t, 100*time.Millisecond, m.Delay(CmdSubmitOrder))
	assert.Equal(t, 100*time.Millisecond, m.Delay(CmdModifyOrder))
}

func TestRandomMissFillModelNeverMissesWithZeroProbability(t *testing.T) {
	m := NewRandomMissFillModel(0, 1, false, rand.New(rand.NewSource(3)))
	px, err := numerics.NewPrice(10000, 2)
	require.NoError(t, err)
	qty, err := numerics.NewQuantity(5, 0)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		adj := m.AdjustFill(instrument.LiquidityTaker, px, qty)
		assert.False(t, adj.Missed)
		assert.Equal(t, px, adj.Px)
		assert.Equal(t, qty, adj.Qty)
	}
}

func TestRandomMissFillModelAlwaysMissesWithCertainProbability(t *testing.T) {
	m := NewRandomMissFillModel(1, 2, true, rand.New(rand.NewSource(3)))
	px, _ := numerics.NewPrice(10000, 2)
	qty, _ := numerics.NewQuantity(5, 0)

	adj := m.AdjustFill(instrument.LiquidityTaker, px, qty)
	assert.True(t, adj.Missed)
}

func TestRandomMissFillModelResidualPolicyReportsConfiguredValues(t *testing.T) {
	m := NewRandomMissFillModel(0.5, 3, true, rand.New(rand.NewSource(9)))
	phantom, ticks := m.ResidualPolicy()
	assert.True(t, phantom)
	assert.Equal(t, int64(3), ticks)

	m2 := NewRandomMissFillModel(0.5, 0, false, rand.New(rand.NewSource(9)))
	phantom2, ticks2 := m2.ResidualPolicy()
	assert.False(t, phantom2)
	assert.Equal(t, int64(0), ticks2)
}
