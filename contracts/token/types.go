// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/openfi/ledger/ledger"
)

// TaxRates holds the buy and sell withholding rates.
type TaxRates struct {
	Buy  ledger.Bps
	Sell ledger.Bps
}

// TaxSplit is the three-way distribution of withheld taxes. The three
// shares must sum to exactly one whole (10000 bp).
type TaxSplit struct {
	MarketingShare  ledger.Bps
	LiquidityShare  ledger.Bps
	DevShare        ledger.Bps
	MarketingWallet ledger.Address
	LiquidityWallet ledger.Address
	DevWallet       ledger.Address
}

// Limits is the transaction-limit configuration, always updated as one
// atomic record. A zero (or nil) field disables the corresponding check.
type Limits struct {
	MaxTxAmount        *big.Int
	MaxWalletAmount    *big.Int
	MaxDailySellAmount *big.Int
	MaxDailyBuys       uint64
}

// window tracks an address's rolling daily accumulators. The stored values
// are only physically zeroed the next time the address performs the
// corresponding operation after the 24h window elapsed.
type window struct {
	SellAmount  *big.Int
	BuyCount    uint64
	SellResetAt uint64
	BuyResetAt  uint64
}

// sellAmountAt returns the effective daily sell accumulator at time now.
func (w *window) sellAmountAt(now uint64) *big.Int {
	if now >= w.SellResetAt+ledger.DaySeconds {
		return new(big.Int)
	}
	if w.SellAmount == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(w.SellAmount)
}

// buyCountAt returns the effective daily buy counter at time now.
func (w *window) buyCountAt(now uint64) uint64 {
	if now >= w.BuyResetAt+ledger.DaySeconds {
		return 0
	}
	return w.BuyCount
}

// resetSell applies the lazy reset rule before a sell is recorded.
func (w *window) resetSell(now uint64) {
	if now >= w.SellResetAt+ledger.DaySeconds {
		w.SellAmount = new(big.Int)
		w.SellResetAt = now
	}
	if w.SellAmount == nil {
		w.SellAmount = new(big.Int)
	}
}

// resetBuy applies the lazy reset rule before a buy is recorded.
func (w *window) resetBuy(now uint64) {
	if now >= w.BuyResetAt+ledger.DaySeconds {
		w.BuyCount = 0
		w.BuyResetAt = now
	}
}
