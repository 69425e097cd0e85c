package account

import (
	"math/big"

	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/numerics"
)

// Balance is one currency's total/free/locked split within an Account (§3
// "Account": "balances: map currency->{total, free, locked}").
type Balance struct {
	Total  numerics.Money
	Free   numerics.Money
	Locked numerics.Money
}

// Account is the simulated cash/margin account a backtest run carries: a
// multi-currency balance map, a per-instrument leverage override table, and
// a frozen flag that blocks balance changes without blocking position
// bookkeeping (§3 "Account"; §4.5).
type Account struct {
	ID              string
	BaseCurrency    numerics.Currency
	balances        map[string]Balance // currency code -> Balance
	leverages       map[instrument.ID]numerics.Price
	defaultLeverage numerics.Price
	frozen          bool

	positions map[string]*Position // position_id -> Position
}

// NewAccount constructs an account with a 1:1 default leverage and no
// starting balance; deposit via AdjustBalance.
func NewAccount(id string, baseCcy numerics.Currency) *Account {
	oneLeverage, _ := numerics.NewPrice(1, 0)
	return &Account{
		ID:              id,
		BaseCurrency:    baseCcy,
		balances:        make(map[string]Balance),
		leverages:       make(map[instrument.ID]numerics.Price),
		defaultLeverage: oneLeverage,
		positions:       make(map[string]*Position),
	}
}

// IsFrozen reports whether balance changes are currently rejected.
func (a *Account) IsFrozen() bool { return a.frozen }

// SetFrozen toggles the frozen flag. Positions keep updating on fills
// regardless; only balance changes are gated (§4.5 "Frozen accounts still
// update positions but reject balance changes").
func (a *Account) SetFrozen(frozen bool) { a.frozen = frozen }

// SetLeverage overrides the default leverage for one instrument.
func (a *Account) SetLeverage(id instrument.ID, leverage numerics.Price) {
	a.leverages[id] = leverage
}

// SetDefaultLeverage overrides the account-wide fallback leverage.
func (a *Account) SetDefaultLeverage(leverage numerics.Price) {
	a.defaultLeverage = leverage
}

func (a *Account) leverageFor(id instrument.ID) numerics.Price {
	if lev, ok := a.leverages[id]; ok {
		return lev
	}
	return a.defaultLeverage
}

// Balance returns the current total/free/locked split for a currency,
// zero-valued if the account has never held that currency.
func (a *Account) Balance(ccy numerics.Currency) Balance {
	if b, ok := a.balances[ccy.Code]; ok {
		return b
	}
	return Balance{Total: numerics.ZeroMoney(ccy), Free: numerics.ZeroMoney(ccy), Locked: numerics.ZeroMoney(ccy)}
}

// ErrAccountFrozen is returned by any balance mutation while frozen.
var ErrAccountFrozen = errFrozen{}

type errFrozen struct{}

func (errFrozen) Error() string { return "account: frozen, balance changes rejected" }

// AdjustBalance applies an explicit total-balance adjustment (deposit or
// withdrawal) to free funds (§4.4 "adjust_account"). Rejected while frozen.
func (a *Account) AdjustBalance(delta numerics.Money) error {
	if a.frozen {
		return ErrAccountFrozen
	}
	b := a.Balance(delta.Currency)
	total, err := b.Total.Add(delta)
	if err != nil {
		return err
	}
	free, err := b.Free.Add(delta)
	if err != nil {
		return err
	}
	b.Total, b.Free = total, free
	a.balances[delta.Currency.Code] = b
	return nil
}

// LockMargin moves `amount` of a currency from free to locked, backing a
// newly-opened or extended position at the instrument's leverage (§4.5 "On
// each fill, account locks/unlocks margin according to leverage"). A frozen
// account still rejects this since it is a balance change.
func (a *Account) LockMargin(ccy numerics.Currency, amount numerics.Money) error {
	if a.frozen {
		return ErrAccountFrozen
	}
	b := a.Balance(ccy)
	free, err := b.Free.Sub(amount)
	if err != nil {
		return err
	}
	locked, err := b.Locked.Add(amount)
	if err != nil {
		return err
	}
	b.Free, b.Locked = free, locked
	a.balances[ccy.Code] = b
	return nil
}

// UnlockMargin reverses LockMargin, e.g. on position reduction/close.
func (a *Account) UnlockMargin(ccy numerics.Currency, amount numerics.Money) error {
	if a.frozen {
		return ErrAccountFrozen
	}
	b := a.Balance(ccy)
	locked, err := b.Locked.Sub(amount)
	if err != nil {
		return err
	}
	free, err := b.Free.Add(amount)
	if err != nil {
		return err
	}
	b.Locked, b.Free = locked, free
	a.balances[ccy.Code] = b
	return nil
}

// rawUnit is the 10^-9 internal resolution every numerics.Price/Quantity/
// Money.Raw() is scaled to (see numerics.Price.Raw()'s doc comment); needed
// here because dividing by a leverage raw value must re-normalize back to
// that same scale.
const rawUnit = 1_000_000_000

// RequiredMargin returns the margin a notional of qty@px in instrument id
// requires at the account's leverage for that instrument: notional/leverage.
func (a *Account) RequiredMargin(id instrument.ID, qty numerics.Quantity, px numerics.Price, ccy numerics.Currency) numerics.Money {
	notional := numerics.MoneyFromNotional(qty, px, ccy)
	lev := a.leverageFor(id)
	if lev.IsZero() {
		return notional
	}
	raw := new(big.Int).Mul(big.NewInt(notional.Raw()), big.NewInt(rawUnit))
	raw.Quo(raw, big.NewInt(lev.Raw()))
	return numerics.MoneyFromRaw(raw.Int64(), ccy)
}

// Position looks up (creating if absent) the position tracked under
// positionID, the unit ApplyFill settles into. pnlCcy seeds RealizedPnL at
// zero in the instrument's quote currency so the first ApplyFill's Add never
// hits numerics.ErrCurrencyMismatch against an uninitialized Money.
func (a *Account) Position(positionID string, instrumentID instrument.ID, precision uint8, pnlCcy numerics.Currency) *Position {
	if p, ok := a.positions[positionID]; ok {
		return p
	}
	zeroQty, _ := numerics.NewQuantity(0, precision)
	p := &Position{
		ID:           positionID,
		InstrumentID: instrumentID,
		Side:         SideFlat,
		NetQty:       zeroQty,
		RealizedPnL:  numerics.ZeroMoney(pnlCcy),
	}
	a.positions[positionID] = p
	return p
}

// Positions returns every position this account has ever opened, including
// ones now FLAT (§3 "Position" stays queryable at FLAT per §4.5).
func (a *Account) Positions() map[string]*Position {
	return a.positions
}
