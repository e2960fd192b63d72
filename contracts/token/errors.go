// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/openfi/ledger/contracts/reverts"

var (
	ErrZeroAddress         = reverts.New("transfer from or to the zero address")
	ErrZeroAmount          = reverts.New("transfer amount is zero")
	ErrTradingNotEnabled   = reverts.New("trading is not enabled")
	ErrMaxTxExceeded       = reverts.New("amount exceeds the max transaction limit")
	ErrMaxWalletExceeded   = reverts.New("resulting balance exceeds the max wallet limit")
	ErrDailySellExceeded   = reverts.New("amount exceeds the daily sell limit")
	ErrDailyBuysExceeded   = reverts.New("daily buy count limit reached")
	ErrRateTooHigh         = reverts.New("tax rate exceeds the 10% cap")
	ErrBadShareSum         = reverts.New("tax shares must sum to 100%")
	ErrInsufficientBalance = reverts.New("transfer amount exceeds balance")
)
