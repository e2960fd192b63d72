// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis assembles a fresh world state with the token and staking
// ledgers deployed, funded and cross-wired.
package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/contracts/staking"
	"github.com/openfi/ledger/contracts/token"
	"github.com/openfi/ledger/ledger"
	"github.com/openfi/ledger/log"
	"github.com/openfi/ledger/state"
)

var logger = log.WithContext("pkg", "genesis")

// Ledger is the assembled system: one world state shared by both engines.
type Ledger struct {
	State   *state.State
	Token   *token.Token
	Staking *staking.Staking
}

type alloc struct {
	addr   ledger.Address
	amount *big.Int
}

type poolSpec struct {
	token             ledger.Address
	weight            *big.Int
	minDeposit        *big.Int
	unstakeLockBlocks uint32
}

// Builder composes the initial state step by step. Keep in mind it's not
// thread-safe.
type Builder struct {
	timestamp uint64

	tokenAddr ledger.Address
	tokenCfg  *token.Config

	stakingAddr ledger.Address
	stakingCfg  *staking.Config

	allocs   []alloc
	treasury *big.Int
	pools    []poolSpec

	emitter contracts.Emitter
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Timestamp sets the genesis timestamp used by setup operations.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// Token deploys the taxed-transfer ledger at addr.
func (b *Builder) Token(addr ledger.Address, cfg *token.Config) *Builder {
	b.tokenAddr = addr
	b.tokenCfg = cfg
	return b
}

// Staking deploys the staking ledger at addr.
func (b *Builder) Staking(addr ledger.Address, cfg *staking.Config) *Builder {
	b.stakingAddr = addr
	b.stakingCfg = cfg
	return b
}

// Alloc moves part of the initial supply from the token owner to addr.
func (b *Builder) Alloc(addr ledger.Address, amount *big.Int) *Builder {
	b.allocs = append(b.allocs, alloc{addr, amount})
	return b
}

// Treasury funds the staking ledger's reward treasury from the token owner.
func (b *Builder) Treasury(amount *big.Int) *Builder {
	b.treasury = amount
	return b
}

// Pool registers a staking pool to be created at genesis.
func (b *Builder) Pool(tokenAddr ledger.Address, weight, minDeposit *big.Int, unstakeLockBlocks uint32) *Builder {
	b.pools = append(b.pools, poolSpec{tokenAddr, weight, minDeposit, unstakeLockBlocks})
	return b
}

// Emitter sets the operation record sink of both engines.
func (b *Builder) Emitter(e contracts.Emitter) *Builder {
	b.emitter = e
	return b
}

// Build assembles the state and both engines. Setup operations run as the
// token owner at block zero.
func (b *Builder) Build() (*Ledger, error) {
	if b.tokenCfg == nil || b.tokenAddr.IsZero() {
		return nil, errors.New("token ledger not configured")
	}

	st := state.New()
	tok := token.New(b.tokenAddr, st, b.emitter)
	if err := tok.Initialize(b.tokenCfg); err != nil {
		return nil, errors.Wrap(err, "initialize token ledger")
	}

	env := contracts.NewEnv(b.tokenCfg.Owner, 0, b.timestamp)
	for _, a := range b.allocs {
		if err := tok.Transfer(env, b.tokenCfg.Owner, a.addr, a.amount); err != nil {
			return nil, errors.Wrap(err, "genesis allocation")
		}
	}

	l := &Ledger{State: st, Token: tok}
	if b.stakingCfg == nil {
		logger.Info("genesis state built", "token", b.tokenAddr)
		return l, nil
	}
	if b.stakingAddr.IsZero() {
		return nil, errors.New("staking ledger not configured")
	}

	resolve := func(addr ledger.Address) staking.TokenLedger {
		// single token ledger in this deployment, every pool settles on it
		return tok
	}
	stk := staking.New(b.stakingAddr, st, b.emitter, resolve)
	if err := stk.Initialize(b.stakingCfg); err != nil {
		return nil, errors.Wrap(err, "initialize staking ledger")
	}

	// the custody account moves deposits and rewards without tax or limits
	if err := tok.SetExemptFromTax(env, b.stakingAddr, true); err != nil {
		return nil, errors.Wrap(err, "exempt staking ledger from tax")
	}
	if err := tok.SetExemptFromLimit(env, b.stakingAddr, true); err != nil {
		return nil, errors.Wrap(err, "exempt staking ledger from limits")
	}

	if b.treasury != nil && b.treasury.Sign() > 0 {
		if err := tok.Transfer(env, b.tokenCfg.Owner, b.stakingAddr, b.treasury); err != nil {
			return nil, errors.Wrap(err, "fund reward treasury")
		}
	}

	for _, p := range b.pools {
		if _, err := stk.AddPool(env, p.token, p.weight, p.minDeposit, p.unstakeLockBlocks); err != nil {
			return nil, errors.Wrap(err, "add genesis pool")
		}
	}

	l.Staking = stk
	logger.Info("genesis state built",
		"token", b.tokenAddr, "staking", b.stakingAddr, "pools", len(b.pools))
	return l, nil
}
