package exchange

import (
	"math/rand"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jclangner/nautilus-trader/internal/account"
	"github.com/jclangner/nautilus-trader/internal/book"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/marketdata"
	"github.com/jclangner/nautilus-trader/internal/matching"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/orders"
	"github.com/jclangner/nautilus-trader/pkg/coreerr"
)

// instrumentState bundles one instrument's book and matching engine, the
// per-instrument unit the exchange dispatches every command and data event
// into (§4.4 "Owns: instruments registry, per-instrument book, per-instrument
// matching engine").
type instrumentState struct {
	instrument *instrument.Instrument
	book       *book.OrderBook
	engine     *matching.Engine
}

// Config bundles the exchange-wide knobs a SimulatedExchange is constructed
// with, mirroring the backtest config this core exposes (SPEC_FULL §1
// "Configuration").
type Config struct {
	Seed                     uint64
	OMS                      orders.OMSType
	RejectStopWhenMarketable bool
	MaxMatchDepth            int
	BaseCurrency             numerics.Currency
	Logger                   *zap.Logger
	MetricsRegistry          *prometheus.Registry
	Sink                     EventSink
}

// SimulatedExchange is the orchestrator of §4.4: it owns every instrument's
// book and matching engine, the account, the commit-time-ordered inflight
// command queue, the injected latency/fill/commission strategy objects, and
// venue identifier generation. It is the sole owner of its mutable state —
// there is exactly one of these per backtest run, and nothing inside it is
// process-global (Design Notes "Registry ... owned by the exchange").
type SimulatedExchange struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics
	rng     *rand.Rand

	ids       *SeededIDGenerator
	latency   LatencyModel
	fillModel matching.FillModel

	instruments map[instrument.ID]*instrumentState
	account     *account.Account
	inflight    *inflightQueue

	clockNs int64
}

// NewSimulatedExchange constructs an exchange from cfg, filling in the
// default LatencyModel/FillModel and a non-global prometheus.Registry when
// the caller didn't supply one (§4.4, SPEC_FULL
// "FillModel/LatencyModel/CommissionModel — concrete defaults"). No
// exchange-wide CommissionModel is set: each instrument carries its own.
func NewSimulatedExchange(cfg Config) *SimulatedExchange {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := cfg.MetricsRegistry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	depth := cfg.MaxMatchDepth
	if depth <= 0 {
		depth = 25
	}
	rng := rand.New(rand.NewSource(int64(cfg.Seed)))

	e := &SimulatedExchange{
		cfg:         cfg,
		logger:      logger,
		metrics:     newMetrics(reg),
		rng:         rng,
		ids:         NewSeededIDGenerator(cfg.Seed),
		latency:     NewFixedLatencyModel(0, 0, rng),
		fillModel:   NewRandomMissFillModel(0, 1, true, rng),
		instruments: make(map[instrument.ID]*instrumentState),
		account:     account.NewAccount("backtest", cfg.BaseCurrency),
		inflight:    newInflightQueue(),
	}
	return e
}

// SetLatencyModel overrides the per-command-kind delay model (§4.4
// "set_latency_model").
func (e *SimulatedExchange) SetLatencyModel(m LatencyModel) { e.latency = m }

// SetFillModel overrides the default fill perturbation model for every
// instrument registered from this point forward (§4.4 "set_fill_model").
func (e *SimulatedExchange) SetFillModel(m matching.FillModel) { e.fillModel = m }

// InitializeAccount resets the account to a fresh, unfrozen, zero-balance
// state in the exchange's base currency (§4.4 "initialize_account").
func (e *SimulatedExchange) InitializeAccount() {
	e.account = account.NewAccount("backtest", e.cfg.BaseCurrency)
}

// AdjustAccount applies an explicit balance adjustment, e.g. a deposit
// seeding starting capital (§4.4 "adjust_account(money)").
func (e *SimulatedExchange) AdjustAccount(delta numerics.Money) error {
	return e.account.AdjustBalance(delta)
}

// Account exposes the account for report generation and test assertions.
func (e *SimulatedExchange) Account() *account.Account { return e.account }

// RegisterInstrument makes inst tradable, constructing its book and
// matching engine wired to this exchange's shared collaborators (§4.4
// "register_instrument").
func (e *SimulatedExchange) RegisterInstrument(inst *instrument.Instrument, bookType book.Type) error {
	if inst == nil {
		return coreerr.Configuration("register_instrument: instrument must not be nil")
	}
	if _, exists := e.instruments[inst.ID]; exists {
		return coreerr.Configuration("register_instrument: %s already registered", inst.ID)
	}

	bk := book.NewOrderBook(inst.ID, bookType, inst.PricePrecision)
	router := &accountRouter{
		acct:      e.account,
		inst:      inst,
		precision: inst.PricePrecision,
		metrics:   e.metrics,
		logger:    e.logger,
		outbound:  e.cfg.Sink,
	}
	eng := matching.NewEngine(matching.Config{
		Instrument:               inst,
		Book:                     bk,
		Sink:                     router,
		IDs:                      e.ids,
		Positions:                newOMSPositionResolver(e.cfg.OMS),
		FillModel:                e.fillModel,
		OMS:                      e.cfg.OMS,
		RejectStopWhenMarketable: e.cfg.RejectStopWhenMarketable,
		MaxMatchDepth:            e.cfg.MaxMatchDepth,
		Logger:                   e.logger,
	})
	e.instruments[inst.ID] = &instrumentState{instrument: inst, book: bk, engine: eng}
	e.logger.Debug("instrument registered", zap.String("instrument_id", inst.ID.String()))
	return nil
}

func (e *SimulatedExchange) stateFor(id instrument.ID) (*instrumentState, error) {
	st, ok := e.instruments[id]
	if !ok {
		return nil, coreerr.NotFound("instrument %s not registered", id)
	}
	return st, nil
}

// Send enqueues a command to commit at now + latency(command.kind) into the
// inflight min-heap (§4.4 "send(command)").
func (e *SimulatedExchange) Send(cmd Command) {
	delay := e.latency.Delay(cmd.Kind)
	commitNs := cmd.TsInit + delay.Nanoseconds()
	e.inflight.push(commitNs, cmd)
	e.metrics.inflightDepth.Set(float64(e.inflight.len()))
}

// dispatch commits one command against its instrument's matching engine
// (§4.4 "dispatch to matching engine").
func (e *SimulatedExchange) dispatch(cmd Command, commitNs int64) error {
	st, err := e.stateFor(cmd.InstrumentID)
	if err != nil {
		return err
	}
	switch cmd.Kind {
	case CmdSubmitOrder:
		if err := st.engine.Submit(cmd.Order, commitNs); err != nil {
			return err
		}
	case CmdSubmitOrderList:
		for _, o := range cmd.OrderList.Orders {
			if err := st.engine.Submit(o, commitNs); err != nil {
				return err
			}
		}
	case CmdModifyOrder:
		st.engine.ModifyOrder(cmd.ClientOrderID, cmd.NewQuantity, cmd.NewPrice, cmd.NewTrigger, commitNs)
	case CmdCancelOrder:
		st.engine.CancelOrder(cmd.ClientOrderID, commitNs)
	case CmdCancelAllOrders:
		st.engine.CancelAllOrders(cmd.StrategyID, commitNs)
	default:
		return coreerr.Validation("unsupported command kind %s", cmd.Kind)
	}
	return nil
}

// Process drains every inflight command whose commit time is at or before
// nowNs in commit-time order with FIFO tie-break, dispatching each to its
// instrument's matching engine, then advances the exchange clock to nowNs
// (§4.4 "process(now_ns)", §5 "Ordering guarantees"). Process does not run
// the engines' match loop (stop/trailing evaluation, GTD expiry, resting
// orders against the book); that runs only when a market-data event reaches
// an engine through the Process* data methods.
func (e *SimulatedExchange) Process(nowNs int64) {
	for e.inflight.peekReady(nowNs) {
		entry := e.inflight.pop()
		e.metrics.inflightDepth.Set(float64(e.inflight.len()))
		if err := e.dispatch(entry.command, entry.commitNs); err != nil {
			e.logger.Warn("command dispatch failed",
				zap.String("command_id", entry.command.CommandID),
				zap.Error(err))
		}
	}
	e.clockNs = nowNs
}

// ProcessOrderBookSnapshot applies a full-book replacement and re-evaluates
// triggers (§4.4 "process_order_book").
func (e *SimulatedExchange) ProcessOrderBookSnapshot(snap marketdata.OrderBookSnapshot) error {
	st, err := e.stateFor(snap.InstrumentID)
	if err != nil {
		return err
	}
	st.engine.OnBookSnapshot(snap, snap.TsEvent)
	return nil
}

// ProcessOrderBookDelta applies a single book mutation (§4.4
// "process_order_book").
func (e *SimulatedExchange) ProcessOrderBookDelta(d marketdata.OrderBookDelta) error {
	st, err := e.stateFor(d.InstrumentID)
	if err != nil {
		return err
	}
	st.engine.OnBookDelta(d, d.TsEvent)
	return nil
}

// ProcessQuoteTick applies a top-of-book quote (§4.4 "process_quote_tick").
func (e *SimulatedExchange) ProcessQuoteTick(q marketdata.QuoteTick) error {
	st, err := e.stateFor(q.InstrumentID)
	if err != nil {
		return err
	}
	st.engine.OnQuote(q, q.TsEvent)
	return nil
}

// ProcessTradeTick applies an executed trade print (§4.4
// "process_trade_tick").
func (e *SimulatedExchange) ProcessTradeTick(t marketdata.TradeTick) error {
	st, err := e.stateFor(t.InstrumentID)
	if err != nil {
		return err
	}
	st.engine.OnTrade(t, t.TsEvent)
	return nil
}

// ProcessBar drives the bar-driven synthetic touch sequence (§4.4
// "process_bar", §4.3.7).
func (e *SimulatedExchange) ProcessBar(b marketdata.Bar) error {
	st, err := e.stateFor(b.InstrumentID)
	if err != nil {
		return err
	}
	st.engine.OnBar(b, b.TsEvent)
	return nil
}

// Engine exposes the per-instrument matching engine for report generation
// and test assertions.
func (e *SimulatedExchange) Engine(id instrument.ID) (*matching.Engine, error) {
	st, err := e.stateFor(id)
	if err != nil {
		return nil, err
	}
	return st.engine, nil
}

// Reset clears every instrument's book/engine state, the account, the
// inflight queue, and identifier counters back to a fresh run at the same
// seed (§4.4 "reset").
func (e *SimulatedExchange) Reset() {
	e.account = account.NewAccount("backtest", e.cfg.BaseCurrency)
	e.ids = NewSeededIDGenerator(e.cfg.Seed)
	for id, st := range e.instruments {
		bk := book.NewOrderBook(id, st.book.BookType, st.instrument.PricePrecision)
		router := &accountRouter{
			acct:      e.account,
			inst:      st.instrument,
			precision: st.instrument.PricePrecision,
			metrics:   e.metrics,
			logger:    e.logger,
			outbound:  e.cfg.Sink,
		}
		eng := matching.NewEngine(matching.Config{
			Instrument:               st.instrument,
			Book:                     bk,
			Sink:                     router,
			IDs:                      e.ids,
			Positions:                newOMSPositionResolver(e.cfg.OMS),
			FillModel:                e.fillModel,
			OMS:                      e.cfg.OMS,
			RejectStopWhenMarketable: e.cfg.RejectStopWhenMarketable,
			MaxMatchDepth:            e.cfg.MaxMatchDepth,
			Logger:                   e.logger,
		})
		e.instruments[id] = &instrumentState{instrument: st.instrument, book: bk, engine: eng}
	}
	e.inflight = newInflightQueue()
	e.rng = rand.New(rand.NewSource(int64(e.cfg.Seed)))
	e.clockNs = 0
}

// Now returns the exchange's simulated clock, last advanced by Process.
func (e *SimulatedExchange) Now() int64 { return e.clockNs }
