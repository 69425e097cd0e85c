package numerics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceArithmeticPreservesPrecision(t *testing.T) {
	a, err := NewPrice(10001, 2) // 100.01
	require.NoError(t, err)
	b, err := NewPrice(100, 3) // 0.100
	require.NoError(t, err)

	sum := a.Add(b)
	assert.Equal(t, uint8(3), sum.Precision())
	assert.Equal(t, "100.110", sum.String())
}

func TestPriceRoundTripString(t *testing.T) {
	p, err := ParsePrice("100.025", 3)
	require.NoError(t, err)
	assert.Equal(t, "100.025", p.String())
}

func TestQuantitySubUnderflowRaises(t *testing.T) {
	a, err := NewQuantity(5, 0)
	require.NoError(t, err)
	b, err := NewQuantity(6, 0)
	require.NoError(t, err)

	_, err = a.Sub(b)
	assert.ErrorIs(t, err, ErrQuantityUnderflow)
}

func TestQuantityMulPriceNotional(t *testing.T) {
	qty, err := NewQuantity(3, 0)
	require.NoError(t, err)
	px, err := NewPrice(10002, 2) // 100.02
	require.NoError(t, err)

	ccy := Currency{Code: "USD", Precision: 2}
	notional := MoneyFromNotional(qty, px, ccy)
	assert.Equal(t, "300.06", notional.String()[:6])
}

func TestMoneyCurrencyMismatchRejected(t *testing.T) {
	usd := Currency{Code: "USD", Precision: 2}
	eur := Currency{Code: "EUR", Precision: 2}
	a := NewMoney(10, usd)
	b := NewMoney(5, eur)

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestCurrencyRegistryFallback(t *testing.T) {
	reg := NewCurrencyRegistry()
	unknown := reg.Get("DOGE")
	assert.Equal(t, uint8(8), unknown.Precision)
	assert.Equal(t, CurrencyCrypto, unknown.Kind)

	usd := reg.Get("USD")
	assert.Equal(t, uint8(2), usd.Precision)
}
