// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/ledger"
	"github.com/openfi/ledger/state"
)

var (
	tokenAddr = ledger.MustParseAddress("0x0000000000000000000000004f70656e46690001")
	ownerAddr = ledger.MustParseAddress("0x00000000000000000000000000000000000a11ce")
	pairAddr  = ledger.MustParseAddress("0x0000000000000000000000000000000000007a17")
	bobAddr   = ledger.MustParseAddress("0x0000000000000000000000000000000000000b0b")
	carolAddr = ledger.MustParseAddress("0x000000000000000000000000000000000000ca01")

	marketingAddr = ledger.MustParseAddress("0x000000000000000000000000000000000000f001")
	liquidityAddr = ledger.MustParseAddress("0x000000000000000000000000000000000000f002")
	devAddr       = ledger.MustParseAddress("0x000000000000000000000000000000000000f003")
)

const startTime uint64 = 1767225600

// tokens returns n whole tokens in base units.
func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), ledger.TokenUnit)
}

func env(caller ledger.Address, block uint32, time uint64) contracts.Env {
	return contracts.NewEnv(caller, block, time)
}

func ownerEnv() contracts.Env {
	return env(ownerAddr, 1, startTime)
}

func defaultConfig() *Config {
	return &Config{
		Owner:       ownerAddr,
		TotalSupply: tokens(1_000_000_000),
		Rates:       TaxRates{Buy: 200, Sell: 300},
		Split: TaxSplit{
			MarketingShare:  4000,
			LiquidityShare:  3000,
			DevShare:        3000,
			MarketingWallet: marketingAddr,
			LiquidityWallet: liquidityAddr,
			DevWallet:       devAddr,
		},
		Limits: Limits{
			MaxTxAmount:        tokens(10_000_000),
			MaxWalletAmount:    tokens(20_000_000),
			MaxDailySellAmount: tokens(5_000_000),
			MaxDailyBuys:       3,
		},
	}
}

func newTestToken(t *testing.T) (*Token, *state.State) {
	st := state.New()
	tok := New(tokenAddr, st, nil)
	require.NoError(t, tok.Initialize(defaultConfig()))
	return tok, st
}

// newTradingToken returns a ledger with trading open and the pair funded.
func newTradingToken(t *testing.T) (*Token, *state.State) {
	tok, st := newTestToken(t)
	require.NoError(t, tok.SetPair(ownerEnv(), pairAddr))
	require.NoError(t, tok.Transfer(ownerEnv(), ownerAddr, pairAddr, tokens(10_000_000)))
	require.NoError(t, tok.EnableTrading(ownerEnv()))
	return tok, st
}

func balance(tok *Token, addr ledger.Address) *big.Int {
	return tok.BalanceOf(addr)
}
