// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bench

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestRepresentationsAgree(t *testing.T) {
	amount, _ := new(big.Int).SetString("123456789123456789123456789", 10)
	amountWord, _ := uint256.FromBig(amount)

	assert.Equal(t, TaxBig(amount, 250).String(), TaxWord(amountWord, 250).ToBig().String())

	staked, _ := new(big.Int).SetString("777777777777777777777", 10)
	stakedWord, _ := uint256.FromBig(staked)
	assert.Equal(t, AccStepBig(amount, staked).String(), AccStepWord(amountWord, stakedWord).ToBig().String())
}

func BenchmarkTaxBig(b *testing.B) {
	amount, _ := new(big.Int).SetString("123456789123456789123456789", 10)
	for i := 0; i < b.N; i++ {
		TaxBig(amount, 250)
	}
}

func BenchmarkTaxWord(b *testing.B) {
	amount := uint256.MustFromDecimal("123456789123456789123456789")
	for i := 0; i < b.N; i++ {
		TaxWord(amount, 250)
	}
}

func BenchmarkAccStepBig(b *testing.B) {
	reward, _ := new(big.Int).SetString("1000000000000000000", 10)
	staked, _ := new(big.Int).SetString("777777777777777777777", 10)
	for i := 0; i < b.N; i++ {
		AccStepBig(reward, staked)
	}
}

func BenchmarkAccStepWord(b *testing.B) {
	reward := uint256.NewInt(1e18)
	staked := uint256.MustFromDecimal("777777777777777777777")
	for i := 0; i < b.N; i++ {
		AccStepWord(reward, staked)
	}
}
