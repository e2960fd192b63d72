// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/contracts/token"
	"github.com/openfi/ledger/ledger"
	"github.com/openfi/ledger/state"
)

var (
	tokenAddr   = ledger.MustParseAddress("0x0000000000000000000000004f70656e46690001")
	stakingAddr = ledger.MustParseAddress("0x0000000000000000000000004f70656e46690002")
	ownerAddr   = ledger.MustParseAddress("0x00000000000000000000000000000000000a11ce")
	aliceAddr   = ledger.MustParseAddress("0x000000000000000000000000000000000000a001")
	bobAddr     = ledger.MustParseAddress("0x0000000000000000000000000000000000000b0b")
	sinkAddr    = ledger.MustParseAddress("0x000000000000000000000000000000000000f001")
)

const startTime uint64 = 1767225600

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), ledger.TokenUnit)
}

func env(caller ledger.Address, block uint32) contracts.Env {
	return contracts.NewEnv(caller, block, startTime+uint64(block)*10)
}

// newTestStaking wires a tax-free token ledger, funds the stakers and the
// reward treasury, and opens one pool (id 1) with weight 100, a one-token
// minimum deposit and a 100-block unstake lock.
func newTestStaking(t *testing.T) (*Staking, *token.Token) {
	return newTestStakingEmit(t, nil)
}

func newTestStakingEmit(t *testing.T, emitter contracts.Emitter) (*Staking, *token.Token) {
	st := state.New()
	tok := token.New(tokenAddr, st, emitter)
	require.NoError(t, tok.Initialize(&token.Config{
		Owner:       ownerAddr,
		TotalSupply: tokens(1_000_000_000),
		Rates:       token.TaxRates{},
		Split: token.TaxSplit{
			MarketingShare:  10000,
			MarketingWallet: sinkAddr,
			LiquidityWallet: sinkAddr,
			DevWallet:       sinkAddr,
		},
		Limits: token.Limits{},
	}))
	require.NoError(t, tok.EnableTrading(env(ownerAddr, 0)))

	stk := New(stakingAddr, st, emitter, func(ledger.Address) TokenLedger { return tok })
	require.NoError(t, stk.Initialize(&Config{
		Owner:          ownerAddr,
		RewardToken:    tokenAddr,
		RewardPerBlock: tokens(1),
		StartBlock:     0,
	}))

	// treasury and staker funds
	for _, addr := range []ledger.Address{stakingAddr, aliceAddr, bobAddr} {
		require.NoError(t, tok.Transfer(env(ownerAddr, 0), ownerAddr, addr, tokens(1_000_000)))
	}

	id, err := stk.AddPool(env(ownerAddr, 0), tokenAddr, big.NewInt(100), tokens(1), 100)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
	return stk, tok
}
