package exchange

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"

	"github.com/jclangner/nautilus-trader/internal/config"
)

func TestNewFromBacktestConfigBuildsExchangeWithAccountReady(t *testing.T) {
	logger := zaptest.NewLogger(t)
	lc := fxtest.NewLifecycle(t)
	cfg := config.DefaultConfig()

	e := NewFromBacktestConfig(lc, cfg, logger, NewRegistry(), NewSliceSink())
	require.NotNil(t, e)
	assert.Equal(t, cfg.Exchange.BaseCurrency, e.Account().BaseCurrency.Code)
	assert.False(t, e.Account().IsFrozen())
}

func TestNewFromBacktestConfigSelectsPerKindLatencyModel(t *testing.T) {
	logger := zaptest.NewLogger(t)
	lc := fxtest.NewLifecycle(t)
	cfg := config.DefaultConfig()
	cfg.Latency.Kind = "per_kind"
	cfg.Latency.BaseDelay = 10

	e := NewFromBacktestConfig(lc, cfg, logger, NewRegistry(), NewSliceSink())
	_, ok := e.latency.(*PerKindLatencyModel)
	assert.True(t, ok)
}

func TestNewFromBacktestConfigLifecycleHooksRunCleanly(t *testing.T) {
	logger := zaptest.NewLogger(t)
	lc := fxtest.NewLifecycle(t)
	cfg := config.DefaultConfig()

	NewFromBacktestConfig(lc, cfg, logger, NewRegistry(), NewSliceSink())
	require.NoError(t, lc.Start(context.Background()))
	require.NoError(t, lc.Stop(context.Background()))
}
