package exchange

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jclangner/nautilus-trader/internal/config"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// Module provides a SimulatedExchange wired from a *config.BacktestConfig,
// the fx analogue of the teacher's order_matching.OrderMatchingModule.
var Module = fx.Options(
	fx.Provide(NewRegistry),
	fx.Provide(NewSliceSink),
	fx.Provide(NewFromBacktestConfig),
)

// NewRegistry constructs the exchange's own prometheus.Registry; never the
// package-level prometheus.DefaultRegisterer (Design Notes "Registry ...
// owned by the exchange").
func NewRegistry() *prometheus.Registry { return prometheus.NewRegistry() }

// NewSliceSink supplies the in-memory EventSink test double as the default
// outbound sink (§6 "ships an in-memory SliceSink test double and nothing
// else").
func NewSliceSink() *SliceSink { return &SliceSink{} }

// NewFromBacktestConfig translates a loaded config.BacktestConfig into a
// Config and constructs the exchange, registering fx lifecycle hooks that
// log start/stop the way the teacher's NewFxEngine does.
func NewFromBacktestConfig(
	lc fx.Lifecycle,
	cfg *config.BacktestConfig,
	logger *zap.Logger,
	reg *prometheus.Registry,
	sink *SliceSink,
) *SimulatedExchange {
	ccy := numerics.Currency{Code: cfg.Exchange.BaseCurrency, Precision: 2, Kind: numerics.CurrencyFiat, Name: cfg.Exchange.BaseCurrency}

	e := NewSimulatedExchange(Config{
		Seed:                     cfg.Exchange.Seed,
		OMS:                      orders.OMSType(cfg.Exchange.OMS),
		RejectStopWhenMarketable: cfg.Exchange.RejectStopWhenMarketable,
		MaxMatchDepth:            cfg.Exchange.MaxMatchDepth,
		BaseCurrency:             ccy,
		Logger:                   logger,
		MetricsRegistry:          reg,
		Sink:                     sink,
	})
	e.InitializeAccount()

	switch cfg.Latency.Kind {
	case "per_kind":
		e.SetLatencyModel(&PerKindLatencyModel{Default: cfg.Latency.BaseDelay})
	default:
		e.SetLatencyModel(NewFixedLatencyModel(cfg.Latency.BaseDelay, cfg.Latency.JitterDelay, e.rng))
	}
	e.SetFillModel(NewRandomMissFillModel(cfg.Fill.MissProbability, cfg.Fill.SlippageTicks, cfg.Fill.PhantomFillOnMiss, e.rng))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("simulated exchange starting", zap.Uint64("seed", cfg.Exchange.Seed))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("simulated exchange stopping")
			return nil
		},
	})

	return e
}
