// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/ledger"
)

// limited reports whether a stored limit is actually in force. Unset limits
// round-trip through the stored record as zero, so nil and zero both mean
// "no limit".
func limited(v *big.Int) bool {
	return v != nil && v.Sign() > 0
}

// enforceLimits applies the transaction-limit checks in order, failing fast
// on the first violation. Skipped entirely when either endpoint is exempt.
func (t *Token) enforceLimits(env contracts.Env, from, to ledger.Address, amount *big.Int, isSell, isBuy bool) error {
	fromExempt, err := t.limitExempt.Get(from)
	if err != nil {
		return errors.Wrap(err, "failed to get limit exemption")
	}
	toExempt, err := t.limitExempt.Get(to)
	if err != nil {
		return errors.Wrap(err, "failed to get limit exemption")
	}
	if fromExempt || toExempt {
		return nil
	}

	limits, err := t.limits.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get limits")
	}

	if limited(limits.MaxTxAmount) && amount.Cmp(limits.MaxTxAmount) > 0 {
		return ErrMaxTxExceeded
	}
	if limited(limits.MaxWalletAmount) {
		// checked against the full pre-tax amount
		next := new(big.Int).Add(t.state.GetBalance(to), amount)
		if next.Cmp(limits.MaxWalletAmount) > 0 {
			return ErrMaxWalletExceeded
		}
	}

	if isSell {
		w, err := t.windows.Get(from)
		if err != nil {
			return errors.Wrap(err, "failed to get daily window")
		}
		w.resetSell(env.Timestamp)
		next := new(big.Int).Add(w.SellAmount, amount)
		if limited(limits.MaxDailySellAmount) && next.Cmp(limits.MaxDailySellAmount) > 0 {
			return ErrDailySellExceeded
		}
		w.SellAmount = next
		if err := t.windows.Set(from, w); err != nil {
			return errors.Wrap(err, "failed to set daily window")
		}
	}

	if isBuy {
		w, err := t.windows.Get(to)
		if err != nil {
			return errors.Wrap(err, "failed to get daily window")
		}
		w.resetBuy(env.Timestamp)
		if limits.MaxDailyBuys > 0 && w.BuyCount+1 > limits.MaxDailyBuys {
			return ErrDailyBuysExceeded
		}
		w.BuyCount++
		if err := t.windows.Set(to, w); err != nil {
			return errors.Wrap(err, "failed to set daily window")
		}
	}
	return nil
}

// DailySellAmount returns the effective daily sell accumulator of addr at
// time now, applying the lazy-reset rule without mutating state.
func (t *Token) DailySellAmount(addr ledger.Address, now uint64) (*big.Int, error) {
	w, err := t.windows.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get daily window")
	}
	return w.sellAmountAt(now), nil
}

// DailyBuyCount returns the effective daily buy counter of addr at time
// now, applying the lazy-reset rule without mutating state.
func (t *Token) DailyBuyCount(addr ledger.Address, now uint64) (uint64, error) {
	w, err := t.windows.Get(addr)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get daily window")
	}
	return w.buyCountAt(now), nil
}
