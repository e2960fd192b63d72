// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/ledger"
)

// UpdateTaxRates sets the buy and sell tax rates. Owner only; either rate
// above the 10% cap is rejected.
func (t *Token) UpdateTaxRates(env contracts.Env, buy, sell ledger.Bps) error {
	return t.runOp(env, "updateTaxRates", []contracts.Param{
		{Name: "buy", Value: buy.String()},
		{Name: "sell", Value: sell.String()},
	}, func() error {
		if err := t.onlyOwner(env); err != nil {
			return err
		}
		if buy > ledger.MaxTaxRateBps || sell > ledger.MaxTaxRateBps {
			return ErrRateTooHigh
		}
		return t.taxRates.Set(&TaxRates{Buy: buy, Sell: sell})
	})
}

// UpdateTaxShares sets the three-way tax split shares, which must sum to
// exactly 100%. Recipients are unchanged. Owner only.
func (t *Token) UpdateTaxShares(env contracts.Env, marketing, liquidity, dev ledger.Bps) error {
	return t.runOp(env, "updateTaxShares", []contracts.Param{
		{Name: "marketing", Value: marketing.String()},
		{Name: "liquidity", Value: liquidity.String()},
		{Name: "dev", Value: dev.String()},
	}, func() error {
		if err := t.onlyOwner(env); err != nil {
			return err
		}
		split, err := t.taxSplit.Get()
		if err != nil {
			return errors.Wrap(err, "failed to get tax split")
		}
		split.MarketingShare = marketing
		split.LiquidityShare = liquidity
		split.DevShare = dev
		if err := checkSplit(split); err != nil {
			return err
		}
		return t.taxSplit.Set(split)
	})
}

// UpdateTransactionLimits sets all four limits as one atomic record.
// Owner only; no further validation.
func (t *Token) UpdateTransactionLimits(env contracts.Env, limits *Limits) error {
	return t.runOp(env, "updateTransactionLimits", []contracts.Param{
		{Name: "maxTx", Value: bigStr(limits.MaxTxAmount)},
		{Name: "maxWallet", Value: bigStr(limits.MaxWalletAmount)},
		{Name: "maxDailySell", Value: bigStr(limits.MaxDailySellAmount)},
		{Name: "maxDailyBuys", Value: fmt.Sprintf("%d", limits.MaxDailyBuys)},
	}, func() error {
		if err := t.onlyOwner(env); err != nil {
			return err
		}
		return t.limits.Set(limits)
	})
}

// ManualDistributeTaxes distributes whatever the holding account currently
// holds through the regular three-way split. No-op when the holding balance
// is zero. Owner only.
func (t *Token) ManualDistributeTaxes(env contracts.Env) error {
	return t.runOp(env, "manualDistributeTaxes", nil, func() error {
		if err := t.onlyOwner(env); err != nil {
			return err
		}
		held := t.state.GetBalance(t.addr)
		if held.Sign() == 0 {
			return nil
		}
		return t.distribute(held)
	})
}

// SetPair designates the pair address that defines buys and sells.
// Owner only.
func (t *Token) SetPair(env contracts.Env, pair ledger.Address) error {
	return t.runOp(env, "setPair", []contracts.Param{
		{Name: "pair", Value: pair.String()},
	}, func() error {
		if err := t.onlyOwner(env); err != nil {
			return err
		}
		t.pair.Set(pair)
		return nil
	})
}

// SetExemptFromTax flags or unflags an address as tax exempt. Owner only.
func (t *Token) SetExemptFromTax(env contracts.Env, addr ledger.Address, exempt bool) error {
	return t.runOp(env, "setExemptFromTax", []contracts.Param{
		{Name: "addr", Value: addr.String()},
		{Name: "exempt", Value: fmt.Sprintf("%t", exempt)},
	}, func() error {
		if err := t.onlyOwner(env); err != nil {
			return err
		}
		return t.taxExempt.Set(addr, exempt)
	})
}

// SetExemptFromLimit flags or unflags an address as limit exempt. Owner only.
func (t *Token) SetExemptFromLimit(env contracts.Env, addr ledger.Address, exempt bool) error {
	return t.runOp(env, "setExemptFromLimit", []contracts.Param{
		{Name: "addr", Value: addr.String()},
		{Name: "exempt", Value: fmt.Sprintf("%t", exempt)},
	}, func() error {
		if err := t.onlyOwner(env); err != nil {
			return err
		}
		return t.limitExempt.Set(addr, exempt)
	})
}

// EnableTrading opens the ledger to non-owner transfers. Owner only.
func (t *Token) EnableTrading(env contracts.Env) error {
	return t.runOp(env, "enableTrading", nil, func() error {
		if err := t.onlyOwner(env); err != nil {
			return err
		}
		t.trading.Set(true)
		return nil
	})
}

// EmergencyStop forces trading off again. Owner only.
func (t *Token) EmergencyStop(env contracts.Env) error {
	return t.runOp(env, "emergencyStop", nil, func() error {
		if err := t.onlyOwner(env); err != nil {
			return err
		}
		t.trading.Set(false)
		return nil
	})
}

//
// Getters - no state change
//

// Address returns the ledger's own address, which holds withheld taxes.
func (t *Token) Address() ledger.Address {
	return t.addr
}

// BalanceOf returns the balance of the given address.
func (t *Token) BalanceOf(addr ledger.Address) *big.Int {
	return t.state.GetBalance(addr)
}

// TotalSupply returns the fixed total supply.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

// Owner returns the privileged owner identity.
func (t *Token) Owner() ledger.Address {
	return t.owner.Get()
}

// Pair returns the designated pair address, zero when unset.
func (t *Token) Pair() ledger.Address {
	return t.pair.Get()
}

// TradingEnabled returns whether non-owner transfers are allowed.
func (t *Token) TradingEnabled() bool {
	return t.trading.Get()
}

// TaxRatesConfig returns the current buy/sell rates.
func (t *Token) TaxRatesConfig() (*TaxRates, error) {
	return t.taxRates.Get()
}

// TaxSplitConfig returns the current three-way split.
func (t *Token) TaxSplitConfig() (*TaxSplit, error) {
	return t.taxSplit.Get()
}

// LimitsConfig returns the current transaction limits.
func (t *Token) LimitsConfig() (*Limits, error) {
	return t.limits.Get()
}

// IsExemptFromTax returns whether addr bypasses tax withholding.
func (t *Token) IsExemptFromTax(addr ledger.Address) (bool, error) {
	return t.taxExempt.Get(addr)
}

// IsExemptFromLimit returns whether addr bypasses transaction limits.
func (t *Token) IsExemptFromLimit(addr ledger.Address) (bool, error) {
	return t.limitExempt.Get(addr)
}

func bigStr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
