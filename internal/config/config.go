// Package config loads the knobs a backtest run is constructed from, the
// same YAML-file-with-defaults pattern as pkg/config/config.go in the
// teacher repo: read the file if given, fall back to DefaultConfig
// otherwise, then Validate before handing it to the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// LatencyConfig selects and parametrizes the exchange's LatencyModel.
type LatencyConfig struct {
	Kind          string        `json:"kind" yaml:"kind"` // "fixed" or "per_kind"
	BaseDelay     time.Duration `json:"base_delay" yaml:"base_delay"`
	JitterDelay   time.Duration `json:"jitter_delay" yaml:"jitter_delay"`
}

// FillConfig selects and parametrizes the exchange's FillModel.
type FillConfig struct {
	MissProbability   float64 `json:"miss_probability" yaml:"miss_probability"`
	SlippageTicks     int64   `json:"slippage_ticks" yaml:"slippage_ticks"`
	PhantomFillOnMiss bool    `json:"phantom_fill_on_miss" yaml:"phantom_fill_on_miss"`
}

// CommissionConfig parametrizes the default bps-based CommissionModel.
type CommissionConfig struct {
	MakerBps float64 `json:"maker_bps" yaml:"maker_bps"`
	TakerBps float64 `json:"taker_bps" yaml:"taker_bps"`
}

// ExchangeConfig mirrors exchange.Config's run-level knobs.
type ExchangeConfig struct {
	Seed                     uint64 `json:"seed" yaml:"seed"`
	OMS                      string `json:"oms" yaml:"oms"` // "NETTING" or "HEDGING"
	RejectStopWhenMarketable bool   `json:"reject_stop_when_marketable" yaml:"reject_stop_when_marketable"`
	MaxMatchDepth            int    `json:"max_match_depth" yaml:"max_match_depth"`
	BaseCurrency             string `json:"base_currency" yaml:"base_currency"`
}

// MetricsConfig controls the exchange's Prometheus registry exposure.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
	Path    string `json:"path" yaml:"path"`
}

// LoggingConfig controls zap logger construction.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "json" or "console"
}

// BacktestConfig is the root configuration a backtest run is constructed
// from (SPEC_FULL §1 "Configuration").
type BacktestConfig struct {
	Exchange   ExchangeConfig   `json:"exchange" yaml:"exchange"`
	Latency    LatencyConfig    `json:"latency" yaml:"latency"`
	Fill       FillConfig       `json:"fill" yaml:"fill"`
	Commission CommissionConfig `json:"commission" yaml:"commission"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

var (
	ErrInvalidOMS          = errors.New("config: oms must be NETTING or HEDGING")
	ErrInvalidMatchDepth   = errors.New("config: max_match_depth must be positive")
	ErrMissingBaseCurrency = errors.New("config: base_currency must not be empty")
)

// DefaultConfig returns the configuration a backtest run uses absent an
// override file.
func DefaultConfig() *BacktestConfig {
	return &BacktestConfig{
		Exchange: ExchangeConfig{
			Seed:                     1,
			OMS:                      "NETTING",
			RejectStopWhenMarketable: false,
			MaxMatchDepth:            25,
			BaseCurrency:             "USD",
		},
		Latency: LatencyConfig{
			Kind:        "fixed",
			BaseDelay:   0,
			JitterDelay: 0,
		},
		Fill: FillConfig{
			MissProbability:   0,
			SlippageTicks:     1,
			PhantomFillOnMiss: true,
		},
		Commission: CommissionConfig{
			MakerBps: 0,
			TakerBps: 0,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "0.0.0.0:9090",
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads a BacktestConfig from a YAML file, falling back to
// DefaultConfig when configPath is empty or the file does not exist.
func LoadConfig(configPath string) (*BacktestConfig, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the invariants a SimulatedExchange requires of its
// configuration before construction.
func (c *BacktestConfig) Validate() error {
	if c.Exchange.OMS != "NETTING" && c.Exchange.OMS != "HEDGING" {
		return ErrInvalidOMS
	}
	if c.Exchange.MaxMatchDepth <= 0 {
		return ErrInvalidMatchDepth
	}
	if c.Exchange.BaseCurrency == "" {
		return ErrMissingBaseCurrency
	}
	return nil
}

// NewLogger builds a zap.Logger from the Logging section, matching
// pkg/config/config.go's InitLogger level switch.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	switch cfg.Level {
	case "debug":
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zcfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("config: failed to build logger: %w", err)
	}
	return logger, nil
}
