// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/openfi/ledger/contracts/reverts"

var (
	ErrPoolNotExists     = reverts.New("pool does not exist")
	ErrInvalidParameter  = reverts.New("invalid pool parameter")
	ErrInvalidAmount     = reverts.New("invalid amount")
	ErrBelowMinDeposit   = reverts.New("amount below the pool minimum deposit")
	ErrInsufficientStake = reverts.New("amount exceeds staked balance")
	ErrRequestNotFound   = reverts.New("unstake request not found")
	ErrAlreadyProcessed  = reverts.New("unstake request already processed")
	ErrNotUnlockable     = reverts.New("unstake request is still locked")
	ErrNoPendingReward   = reverts.New("no pending reward")
)
