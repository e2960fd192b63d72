// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bench holds the ledger's hot arithmetic in both big.Int and
// uint256 form, to measure what a fixed-width representation would buy.
package bench

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/openfi/ledger/ledger"
)

var scaleWord = uint256.NewInt(1e18)

// TaxBig computes amount * rateBps / 10000 on big.Int.
func TaxBig(amount *big.Int, rateBps uint16) *big.Int {
	tax := new(big.Int).Mul(amount, big.NewInt(int64(rateBps)))
	return tax.Div(tax, big.NewInt(int64(ledger.BpsDenominator)))
}

// TaxWord computes amount * rateBps / 10000 on uint256 words.
func TaxWord(amount *uint256.Int, rateBps uint16) *uint256.Int {
	tax := new(uint256.Int).Mul(amount, uint256.NewInt(uint64(rateBps)))
	return tax.Div(tax, uint256.NewInt(uint64(ledger.BpsDenominator)))
}

// AccStepBig computes the accumulator increment reward * 1e18 / totalStaked
// on big.Int.
func AccStepBig(reward, totalStaked *big.Int) *big.Int {
	step := new(big.Int).Mul(reward, ledger.RewardScale)
	return step.Div(step, totalStaked)
}

// AccStepWord computes the accumulator increment on uint256 words.
func AccStepWord(reward, totalStaked *uint256.Int) *uint256.Int {
	step := new(uint256.Int).Mul(reward, scaleWord)
	return step.Div(step, totalStaked)
}
