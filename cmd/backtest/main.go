// Command backtest drives a SimulatedExchange from an fx-wired dependency
// graph, the subcommand style the teacher's cmd/ entries follow (flag-parsed
// config path, fx.New, fx.Invoke the driver). There is no message bus wire
// layer in this core (SPEC_FULL "Non-goals"), so replay input here is a
// minimal JSON-lines smoke-test format, not a general venue protocol.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jclangner/nautilus-trader/internal/book"
	"github.com/jclangner/nautilus-trader/internal/config"
	"github.com/jclangner/nautilus-trader/internal/exchange"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
	"github.com/jclangner/nautilus-trader/internal/reports"
	"github.com/jclangner/nautilus-trader/internal/validation"
)

const (
	appName    = "backtest"
	appVersion = "v1.0.0"
)

// replayOrder is one line of the smoke-test replay file: a single order
// submission against the default registered instrument.
type replayOrder struct {
	Side   string `json:"side"`
	Kind   string `json:"kind"`
	Qty    string `json:"qty"`
	Price  string `json:"price"`
	TsInit int64  `json:"ts_init"`
}

func main() {
	var (
		configPath = flag.String("config", "", "Path to backtest configuration YAML file")
		replayPath = flag.String("replay", "", "Path to a JSON-lines smoke-test replay file")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", appName, appVersion)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(func(c *config.BacktestConfig) (*zap.Logger, error) {
			return config.NewLogger(c.Logging)
		}),
		exchange.Module,
		fx.Invoke(func(e *exchange.SimulatedExchange, logger *zap.Logger) {
			runBacktest(e, logger, *replayPath)
		}),
	)
	app.Run()
}

// defaultInstrument is the single instrument the smoke-test driver registers
// absent any richer instrument-definition source (out of scope per
// SPEC_FULL's carried-over Non-goals on durable/external catalogs).
func defaultInstrument(baseCcy numerics.Currency) *instrument.Instrument {
	lot, _ := numerics.NewQuantity(1, 0)
	mult, _ := numerics.NewQuantity(1, 0)
	return &instrument.Instrument{
		ID:             instrument.ID{Symbol: "BTC-USD", Venue: "SIM"},
		PricePrecision: 2,
		SizePrecision:  6,
		Multiplier:     mult,
		LotSize:        lot,
		QuoteCurrency:  baseCcy,
		Commission:     instrument.BpsCommissionModel{MakerBps: 0, TakerBps: 5},
	}
}

func runBacktest(e *exchange.SimulatedExchange, logger *zap.Logger, replayPath string) {
	inst := defaultInstrument(e.Account().BaseCurrency)
	if err := e.RegisterInstrument(inst, book.L2MBP); err != nil {
		logger.Fatal("failed to register instrument", zap.Error(err))
	}

	if replayPath == "" {
		logger.Info("no replay file given, exchange constructed and idle")
		return
	}

	f, err := os.Open(replayPath)
	if err != nil {
		logger.Fatal("failed to open replay file", zap.Error(err))
	}
	defer f.Close()

	validator := validation.New()

	var seq int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var ro replayOrder
		if err := json.Unmarshal([]byte(line), &ro); err != nil {
			logger.Warn("skipping malformed replay line", zap.Error(err))
			continue
		}

		seq++
		kind := "MARKET"
		if ro.Kind == "LIMIT" {
			kind = "LIMIT"
		}
		req := exchange.SubmitOrderRequest{
			ClientOrderID: fmt.Sprintf("C-%d", seq),
			Symbol:        inst.ID.Symbol,
			Venue:         inst.ID.Venue,
			StrategyID:    "replay",
			Side:          ro.Side,
			Kind:          kind,
			Quantity:      ro.Qty,
			Price:         ro.Price,
			TimeInForce:   "GTC",
		}
		if err := validator.Validate(req); err != nil {
			logger.Warn("skipping invalid replay line", zap.Error(err))
			continue
		}

		o, err := req.ToOrder(inst, ro.TsInit)
		if err != nil {
			logger.Warn("skipping replay line", zap.Error(err))
			continue
		}

		e.Send(exchange.Command{
			Kind:          exchange.CmdSubmitOrder,
			InstrumentID:  inst.ID,
			ClientOrderID: req.ClientOrderID,
			CommandID:     req.ClientOrderID,
			TsInit:        ro.TsInit,
			Order:         o,
		})
		e.Process(ro.TsInit)
	}
	if err := scanner.Err(); err != nil {
		logger.Error("error reading replay file", zap.Error(err))
	}

	printMassStatus(e, inst.ID)
}

func printMassStatus(e *exchange.SimulatedExchange, instID instrument.ID) {
	eng, err := e.Engine(instID)
	if err != nil {
		return
	}

	var orderReports []reports.OrderStatusReport
	for _, o := range eng.Orders() {
		orderReports = append(orderReports, reports.NewOrderStatusReport(o))
	}

	var posReports []reports.PositionStatusReport
	for _, p := range e.Account().Positions() {
		posReports = append(posReports, reports.NewPositionStatusReport(p))
	}

	mass := reports.ExecutionMassStatus{
		OrderReports:    orderReports,
		TradeReports:    nil,
		PositionReports: posReports,
	}

	out, _ := json.MarshalIndent(mass.ToDict(), "", "  ")
	fmt.Println(string(out))
}
