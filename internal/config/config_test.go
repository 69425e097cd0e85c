package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaultsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backtest.yaml")
	yamlBody := "exchange:\n  seed: 42\n  oms: HEDGING\n  max_match_depth: 10\n  base_currency: EUR\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.Exchange.Seed)
	assert.Equal(t, "HEDGING", cfg.Exchange.OMS)
	assert.Equal(t, 10, cfg.Exchange.MaxMatchDepth)
	assert.Equal(t, "EUR", cfg.Exchange.BaseCurrency)
	// untouched sections keep their defaults
	assert.Equal(t, "fixed", cfg.Latency.Kind)
}

func TestLoadConfigRejectsInvalidOMS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backtest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exchange:\n  oms: BOGUS\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidOMS)
}

func TestValidateRejectsNonPositiveMatchDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exchange.MaxMatchDepth = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMatchDepth)
}

func TestValidateRejectsEmptyBaseCurrency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exchange.BaseCurrency = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingBaseCurrency)
}

func TestNewLoggerBuildsAtConfiguredLevel(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
