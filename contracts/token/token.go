// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the taxed-transfer ledger: a fungible-balance
// ledger wrapped with per-transfer tax withholding, three-way tax
// distribution and rolling per-address transaction limits.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/contracts/storage"
	"github.com/openfi/ledger/ledger"
	"github.com/openfi/ledger/log"
	"github.com/openfi/ledger/metrics"
	"github.com/openfi/ledger/state"
)

var (
	logger = log.WithContext("pkg", "token")

	transferCounter = metrics.CounterVec("token_transfer_count", []string{"kind"})

	slotOwner       = storage.NameToSlot("owner")
	slotPair        = storage.NameToSlot("swap-pair")
	slotTrading     = storage.NameToSlot("trading-enabled")
	slotTotalSupply = storage.NameToSlot("total-supply")
	slotTaxRates    = storage.NameToSlot("tax-rates")
	slotTaxSplit    = storage.NameToSlot("tax-split")
	slotLimits      = storage.NameToSlot("tx-limits")
	slotTaxExempt   = storage.NameToSlot("tax-exempt")
	slotLimitExempt = storage.NameToSlot("limit-exempt")
	slotWindows     = storage.NameToSlot("daily-windows")
)

// Token implements the taxed-transfer ledger over a world state. The
// ledger's own address doubles as the tax holding account.
type Token struct {
	addr    ledger.Address
	state   *state.State
	emitter contracts.Emitter
	guard   contracts.Guard

	owner       *storage.AddressSlot
	pair        *storage.AddressSlot
	trading     *storage.BoolSlot
	totalSupply *storage.Uint256
	taxRates    *storage.Value[*TaxRates]
	taxSplit    *storage.Value[*TaxSplit]
	limits      *storage.Value[*Limits]
	taxExempt   *storage.Mapping[ledger.Address, bool]
	limitExempt *storage.Mapping[ledger.Address, bool]
	windows     *storage.Mapping[ledger.Address, *window]
}

// New creates a token ledger bound to the given address and state.
func New(addr ledger.Address, st *state.State, emitter contracts.Emitter) *Token {
	if emitter == nil {
		emitter = contracts.NopEmitter{}
	}
	ctx := storage.NewContext(addr, st)
	return &Token{
		addr:    addr,
		state:   st,
		emitter: emitter,

		owner:       storage.NewAddressSlot(ctx, slotOwner),
		pair:        storage.NewAddressSlot(ctx, slotPair),
		trading:     storage.NewBoolSlot(ctx, slotTrading),
		totalSupply: storage.NewUint256(ctx, slotTotalSupply),
		taxRates:    storage.NewValue[*TaxRates](ctx, slotTaxRates),
		taxSplit:    storage.NewValue[*TaxSplit](ctx, slotTaxSplit),
		limits:      storage.NewValue[*Limits](ctx, slotLimits),
		taxExempt:   storage.NewMapping[ledger.Address, bool](ctx, slotTaxExempt),
		limitExempt: storage.NewMapping[ledger.Address, bool](ctx, slotLimitExempt),
		windows:     storage.NewMapping[ledger.Address, *window](ctx, slotWindows),
	}
}

// Config is the construction-time configuration of the ledger.
type Config struct {
	Owner       ledger.Address
	TotalSupply *big.Int
	Rates       TaxRates
	Split       TaxSplit
	Limits      Limits
}

// Initialize seeds the ledger: the whole supply is credited to the owner,
// and the owner, the holding account and the three fee recipients start
// exempt from tax and limits. Trading starts disabled.
func (t *Token) Initialize(cfg *Config) error {
	if cfg.Owner.IsZero() {
		return ErrZeroAddress
	}
	if cfg.TotalSupply == nil || cfg.TotalSupply.Sign() <= 0 {
		return ErrZeroAmount
	}
	if cfg.Rates.Buy > ledger.MaxTaxRateBps || cfg.Rates.Sell > ledger.MaxTaxRateBps {
		return ErrRateTooHigh
	}
	if err := checkSplit(&cfg.Split); err != nil {
		return err
	}

	t.owner.Set(cfg.Owner)
	if err := t.totalSupply.Set(cfg.TotalSupply); err != nil {
		return err
	}
	t.state.AddBalance(cfg.Owner, cfg.TotalSupply)

	if err := t.taxRates.Set(&cfg.Rates); err != nil {
		return err
	}
	if err := t.taxSplit.Set(&cfg.Split); err != nil {
		return err
	}
	if err := t.limits.Set(&cfg.Limits); err != nil {
		return err
	}

	for _, addr := range []ledger.Address{
		cfg.Owner, t.addr, cfg.Split.MarketingWallet, cfg.Split.LiquidityWallet, cfg.Split.DevWallet,
	} {
		if err := t.taxExempt.Set(addr, true); err != nil {
			return err
		}
		if err := t.limitExempt.Set(addr, true); err != nil {
			return err
		}
	}

	logger.Info("token ledger initialized", "owner", cfg.Owner, "supply", cfg.TotalSupply)
	return nil
}

// Transfer moves amount from one account to the other, applying the
// trading gate, transaction limits and tax withholding.
func (t *Token) Transfer(env contracts.Env, from, to ledger.Address, amount *big.Int) error {
	return t.runOp(env, "transfer", []contracts.Param{
		{Name: "from", Value: from.String()},
		{Name: "to", Value: to.String()},
		{Name: "amount", Value: amount.String()},
	}, func() error {
		return t.transfer(env, from, to, amount)
	})
}

// CustodyTransfer applies the full transfer pipeline without a guard entry
// or an operation record, for callers moving tokens inside their own
// recorded operation. The caller's checkpoint covers the move; emitting a
// record here would report a transfer as applied even when the enclosing
// operation reverts.
func (t *Token) CustodyTransfer(env contracts.Env, from, to ledger.Address, amount *big.Int) error {
	return t.transfer(env, from, to, amount)
}

func (t *Token) transfer(env contracts.Env, from, to ledger.Address, amount *big.Int) error {
	if from.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	if amount.Sign() == 0 {
		return ErrZeroAmount
	}

	owner := t.owner.Get()
	if !t.trading.Get() && from != owner && to != owner {
		return ErrTradingNotEnabled
	}

	pair := t.pair.Get()
	// A transfer from the owner to the pair matches neither predicate and
	// goes through tax-free and limit-free. Kept as-is, pinned by test.
	isSell := from != owner && to == pair
	isBuy := from == pair && to != owner

	if err := t.enforceLimits(env, from, to, amount, isSell, isBuy); err != nil {
		return err
	}

	tax, err := t.taxFor(from, to, amount, isSell, isBuy)
	if err != nil {
		return err
	}

	if tax.Sign() > 0 {
		if !t.state.SubBalance(from, amount) {
			return ErrInsufficientBalance
		}
		t.state.AddBalance(to, new(big.Int).Sub(amount, tax))
		t.state.AddBalance(t.addr, tax)
		if err := t.distribute(tax); err != nil {
			return err
		}
	} else if err := t.move(from, to, amount); err != nil {
		return err
	}

	kind := "plain"
	switch {
	case isSell:
		kind = "sell"
	case isBuy:
		kind = "buy"
	}
	transferCounter.AddWithLabel(1, map[string]string{"kind": kind})
	return nil
}

// taxFor computes the withheld tax of a transfer, zero unless the transfer
// is a buy or sell between two non-exempt parties.
func (t *Token) taxFor(from, to ledger.Address, amount *big.Int, isSell, isBuy bool) (*big.Int, error) {
	if !isSell && !isBuy {
		return new(big.Int), nil
	}
	fromExempt, err := t.taxExempt.Get(from)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tax exemption")
	}
	toExempt, err := t.taxExempt.Get(to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tax exemption")
	}
	if fromExempt || toExempt {
		return new(big.Int), nil
	}

	rates, err := t.taxRates.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tax rates")
	}
	// rates were bounded at update time, no re-validation here
	if isSell {
		return rates.Sell.Of(amount), nil
	}
	return rates.Buy.Of(amount), nil
}

// distribute splits amount held by the holding account into the three fee
// shares. The dev share takes the truncation remainder so the three parts
// sum exactly to amount.
func (t *Token) distribute(amount *big.Int) error {
	split, err := t.taxSplit.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get tax split")
	}

	marketing := split.MarketingShare.Of(amount)
	liquidity := split.LiquidityShare.Of(amount)
	dev := new(big.Int).Sub(amount, marketing)
	dev.Sub(dev, liquidity)

	if err := t.move(t.addr, split.MarketingWallet, marketing); err != nil {
		return err
	}
	if err := t.move(t.addr, split.LiquidityWallet, liquidity); err != nil {
		return err
	}
	return t.move(t.addr, split.DevWallet, dev)
}

// move is the internal transfer primitive: no taxes, no limit checks. The
// tax-forwarding path relies on it to avoid taxing its own bookkeeping.
func (t *Token) move(from, to ledger.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if !t.state.SubBalance(from, amount) {
		return ErrInsufficientBalance
	}
	t.state.AddBalance(to, amount)
	return nil
}

func (t *Token) onlyOwner(env contracts.Env) error {
	if env.Caller != t.owner.Get() {
		return contracts.ErrUnauthorized
	}
	return nil
}

// runOp applies one state-changing operation atomically: the re-entrancy
// guard is held for its duration, and any error rolls the state back to the
// entry checkpoint before the operation record is emitted.
func (t *Token) runOp(env contracts.Env, op string, params []contracts.Param, fn func() error) error {
	emit := func(err error) {
		r := contracts.Record{
			Op:     "token." + op,
			Caller: env.Caller,
			Block:  env.BlockNumber,
			Time:   env.Timestamp,
			Params: params,
		}
		if err != nil {
			r.Err = err.Error()
		}
		t.emitter.Emit(r)
	}

	if err := t.guard.Enter(); err != nil {
		emit(err)
		return err
	}
	defer t.guard.Leave()

	cp := t.state.NewCheckpoint()
	if err := fn(); err != nil {
		t.state.RevertTo(cp)
		emit(err)
		return err
	}
	emit(nil)
	return nil
}

func checkSplit(split *TaxSplit) error {
	if int(split.MarketingShare)+int(split.LiquidityShare)+int(split.DevShare) != ledger.BpsDenominator {
		return ErrBadShareSum
	}
	return nil
}
