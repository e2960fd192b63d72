// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/openfi/ledger/ledger"
)

// Pool is one staking pool. Its weight is the pool's relative share of the
// global per-block emission.
type Pool struct {
	Token             ledger.Address
	Weight            *big.Int
	LastRewardBlock   uint32
	AccRewardPerShare *big.Int // scaled by 1e18
	TotalStaked       *big.Int
	MinDeposit        *big.Int
	UnstakeLockBlocks uint32
	Exists            bool
}

// IsEmpty returns whether the pool record is unset.
func (p *Pool) IsEmpty() bool {
	return !p.Exists
}

// UserInfo is the per-pool, per-address stake record.
//
// RewardDebt is the user's share of the accumulator already accounted for:
// settlement credits staked*accRewardPerShare/1e18 - rewardDebt to
// PendingReward and re-bases the debt, so a user's total claimable reward
// is exactly their time-weighted share of the emission regardless of other
// users' activity. FinishedReward only grows, by the claimed amount.
type UserInfo struct {
	StakedAmount   *big.Int
	RewardDebt     *big.Int
	PendingReward  *big.Int
	FinishedReward *big.Int
	Requests       []uint64
}

func (u *UserInfo) normalize() {
	if u.StakedAmount == nil {
		u.StakedAmount = new(big.Int)
	}
	if u.RewardDebt == nil {
		u.RewardDebt = new(big.Int)
	}
	if u.PendingReward == nil {
		u.PendingReward = new(big.Int)
	}
	if u.FinishedReward == nil {
		u.FinishedReward = new(big.Int)
	}
}

// UnstakeRequest is one outstanding two-phase withdrawal. Requests are
// append-only; processing only flips the flag.
type UnstakeRequest struct {
	Pool        uint64
	Owner       ledger.Address
	Amount      *big.Int
	UnlockBlock uint32
	Processed   bool
}

// IsEmpty returns whether the request record is unset (the amount sentinel).
func (r *UnstakeRequest) IsEmpty() bool {
	return r.Amount == nil || r.Amount.Sign() == 0
}
