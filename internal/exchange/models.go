package exchange

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/matching"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// LatencyModel schedules a command's commit delay by kind (Design Notes
// "Latency model ... are strategy-object interfaces").
type LatencyModel interface {
	Delay(kind CommandKind) time.Duration
}

// FixedLatencyModel returns the same delay regardless of command kind,
// optionally jittered uniformly within [0, Jitter) using the exchange's own
// seeded RNG rather than process-global randomness (Design Notes
// "Randomness").
type FixedLatencyModel struct {
	Base   time.Duration
	Jitter time.Duration
	rng    *rand.Rand
}

// NewFixedLatencyModel builds a FixedLatencyModel drawing jitter from rng.
func NewFixedLatencyModel(base, jitter time.Duration, rng *rand.Rand) *FixedLatencyModel {
	return &FixedLatencyModel{Base: base, Jitter: jitter, rng: rng}
}

func (m *FixedLatencyModel) Delay(kind CommandKind) time.Duration {
	if m.Jitter <= 0 {
		return m.Base
	}
	u := distuv.Uniform{Min: 0, Max: float64(m.Jitter), Src: m.rng}
	return m.Base + time.Duration(u.Rand())
}

// PerKindLatencyModel charges a distinct base delay per CommandKind (§4.4
// "distinct per command type"), falling back to Default for any kind it
// does not carry an explicit entry for.
type PerKindLatencyModel struct {
	Default time.Duration
	ByKind  map[CommandKind]time.Duration
}

func (m *PerKindLatencyModel) Delay(kind CommandKind) time.Duration {
	if d, ok := m.ByKind[kind]; ok {
		return d
	}
	return m.Default
}

// RandomMissFillModel is the default matching.FillModel: it draws a uniform
// variate per candidate fill to decide a latency-induced miss, otherwise
// passes the level through unperturbed, and reports a phantom-fill residual
// policy shifted by a fixed slippage tick count (§4.3.3 step 4, §4.3.4,
// Design Notes "Randomness").
type RandomMissFillModel struct {
	MissProbability float64 // in [0, 1]; 1 misses every candidate fill
	SlippageTicks   int64
	Phantom         bool
	rng             *rand.Rand
}

// NewRandomMissFillModel builds a RandomMissFillModel drawing its miss
// decision from rng, the exchange's single seeded PRNG.
func NewRandomMissFillModel(missProbability float64, slippageTicks int64, phantom bool, rng *rand.Rand) *RandomMissFillModel {
	return &RandomMissFillModel{MissProbability: missProbability, SlippageTicks: slippageTicks, Phantom: phantom, rng: rng}
}

func (m *RandomMissFillModel) AdjustFill(side instrument.LiquiditySide, candidatePx numerics.Price, candidateQty numerics.Quantity) matching.FillAdjustment {
	if m.MissProbability > 0 {
		u := distuv.Uniform{Min: 0, Max: 1, Src: m.rng}
		if u.Rand() < m.MissProbability {
			return matching.FillAdjustment{Missed: true}
		}
	}
	return matching.FillAdjustment{Qty: candidateQty, Px: candidatePx}
}

func (m *RandomMissFillModel) ResidualPolicy() (bool, int64) {
	return m.Phantom, m.SlippageTicks
}
