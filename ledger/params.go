// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "math/big"

// Constants of the accounting engines.
const (
	// BpsDenominator is the implicit denominator of all basis-point percentages.
	BpsDenominator = 10000

	// MaxTaxRateBps caps buy/sell tax rates at 10%.
	MaxTaxRateBps = 1000

	// DaySeconds is the length of the rolling transaction-limit windows.
	DaySeconds = 24 * 60 * 60
)

var (
	// RewardScale scales the per-share reward accumulator (1e18).
	RewardScale = big.NewInt(1e18)

	// TokenUnit is the smallest-denomination multiplier of one whole token (1e18).
	TokenUnit = big.NewInt(1e18)
)
