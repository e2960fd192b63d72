// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/ledger"
)

func TestInitializeValidation(t *testing.T) {
	bad := New(stakingAddr, nil, nil, nil)
	assert.ErrorIs(t, bad.Initialize(&Config{
		RewardToken:    tokenAddr,
		RewardPerBlock: tokens(1),
	}), ErrInvalidParameter)
	assert.ErrorIs(t, bad.Initialize(&Config{
		Owner:          ownerAddr,
		RewardToken:    tokenAddr,
		RewardPerBlock: new(big.Int),
	}), ErrInvalidParameter)
}

func TestAddPool(t *testing.T) {
	stk, _ := newTestStaking(t)

	id, err := stk.AddPool(env(ownerAddr, 5), tokenAddr, big.NewInt(50), tokens(2), 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)
	assert.Equal(t, uint64(2), stk.PoolCount())

	pool, err := stk.GetPool(2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), pool.Weight)
	assert.Equal(t, uint32(5), pool.LastRewardBlock)
	assert.Equal(t, 0, pool.TotalStaked.Sign())

	tw, err := stk.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), tw)

	_, err = stk.AddPool(env(bobAddr, 5), tokenAddr, big.NewInt(1), tokens(1), 1)
	assert.ErrorIs(t, err, contracts.ErrUnauthorized)

	for _, err := range []error{
		func() error {
			_, err := stk.AddPool(env(ownerAddr, 5), ledger.Address{}, big.NewInt(1), tokens(1), 1)
			return err
		}(),
		func() error {
			_, err := stk.AddPool(env(ownerAddr, 5), tokenAddr, new(big.Int), tokens(1), 1)
			return err
		}(),
		func() error {
			_, err := stk.AddPool(env(ownerAddr, 5), tokenAddr, big.NewInt(1), new(big.Int), 1)
			return err
		}(),
		func() error {
			_, err := stk.AddPool(env(ownerAddr, 5), tokenAddr, big.NewInt(1), tokens(1), 0)
			return err
		}(),
	} {
		assert.ErrorIs(t, err, ErrInvalidParameter)
	}
}

func TestAddPoolBeforeEmissionStart(t *testing.T) {
	stk, _ := newTestStaking(t)
	require.NoError(t, stk.Initialize(&Config{
		Owner:          ownerAddr,
		RewardToken:    tokenAddr,
		RewardPerBlock: tokens(1),
		StartBlock:     50,
	}))

	// a pool added before the emission start accrues from the start block
	id, err := stk.AddPool(env(ownerAddr, 10), tokenAddr, big.NewInt(100), tokens(1), 100)
	require.NoError(t, err)
	pool, err := stk.GetPool(id)
	require.NoError(t, err)
	assert.Equal(t, uint32(50), pool.LastRewardBlock)
}

func TestStake(t *testing.T) {
	stk, tok := newTestStaking(t)

	assert.ErrorIs(t, stk.Stake(env(aliceAddr, 10), 9, tokens(10)), ErrPoolNotExists)
	assert.ErrorIs(t, stk.Stake(env(aliceAddr, 10), 1, new(big.Int)), ErrInvalidAmount)
	assert.ErrorIs(t, stk.Stake(env(aliceAddr, 10), 1, big.NewInt(1)), ErrBelowMinDeposit)

	custodyBefore := tok.BalanceOf(stakingAddr)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))

	user, err := stk.GetUserInfo(1, aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, tokens(100), user.StakedAmount)

	pool, err := stk.GetPool(1)
	require.NoError(t, err)
	assert.Equal(t, tokens(100), pool.TotalStaked)

	assert.Equal(t, tokens(999_900), tok.BalanceOf(aliceAddr))
	assert.Equal(t, new(big.Int).Add(custodyBefore, tokens(100)), tok.BalanceOf(stakingAddr))
}

func TestStakeCreditsActualReceived(t *testing.T) {
	stk, tok := newTestStaking(t)

	// make deposits into the custody account count as taxed sells: the
	// stake must record what actually arrived, not what was sent
	require.NoError(t, tok.UpdateTaxRates(env(ownerAddr, 5), 0, 300))
	require.NoError(t, tok.SetPair(env(ownerAddr, 5), stakingAddr))

	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))

	user, err := stk.GetUserInfo(1, aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, tokens(97), user.StakedAmount)
}

func TestPendingRewardAccrual(t *testing.T) {
	stk, _ := newTestStaking(t)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))

	// sole staker of the sole pool: 10 blocks at one token per block
	pending, err := stk.GetPendingReward(1, aliceAddr, 20)
	require.NoError(t, err)
	assert.Equal(t, tokens(10), pending)

	// the view does not advance state
	pool, err := stk.GetPool(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), pool.LastRewardBlock)
}

func TestTwoStakersShareByStake(t *testing.T) {
	stk, _ := newTestStaking(t)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))
	require.NoError(t, stk.Stake(env(bobAddr, 10), 1, tokens(300)))

	alicePending, err := stk.GetPendingReward(1, aliceAddr, 20)
	require.NoError(t, err)
	bobPending, err := stk.GetPendingReward(1, bobAddr, 20)
	require.NoError(t, err)

	// 10 tokens emitted, shared 1:3
	assert.Equal(t, big.NewInt(25), new(big.Int).Div(alicePending, big.NewInt(1e17)))
	assert.Equal(t, big.NewInt(75), new(big.Int).Div(bobPending, big.NewInt(1e17)))
}

func TestRestakeKeepsEarnedShare(t *testing.T) {
	stk, _ := newTestStaking(t)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))

	// doubling the stake at block 20 must not rescale the 10 tokens
	// already earned
	require.NoError(t, stk.Stake(env(aliceAddr, 20), 1, tokens(100)))

	user, err := stk.GetUserInfo(1, aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, tokens(10), user.PendingReward)

	pending, err := stk.GetPendingReward(1, aliceAddr, 30)
	require.NoError(t, err)
	assert.Equal(t, tokens(20), pending)
}

func TestClaimReward(t *testing.T) {
	stk, tok := newTestStaking(t)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))

	balanceBefore := tok.BalanceOf(aliceAddr)
	require.NoError(t, stk.ClaimReward(env(aliceAddr, 20), 1))
	assert.Equal(t, new(big.Int).Add(balanceBefore, tokens(10)), tok.BalanceOf(aliceAddr))

	user, err := stk.GetUserInfo(1, aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, 0, user.PendingReward.Sign())
	assert.Equal(t, tokens(10), user.FinishedReward)

	// nothing accrued since the claim
	assert.ErrorIs(t, stk.ClaimReward(env(aliceAddr, 20), 1), ErrNoPendingReward)
}

func TestUpdatePoolNoSettlementDrift(t *testing.T) {
	stk, _ := newTestStaking(t)
	_, err := stk.AddPool(env(ownerAddr, 0), tokenAddr, big.NewInt(100), tokens(1), 100)
	require.NoError(t, err)

	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))

	// re-weighting without settling: the whole 10..30 span is later
	// accrued at the new 300/400 ratio, not split at block 20
	require.NoError(t, stk.UpdatePool(env(ownerAddr, 20), 1, big.NewInt(300), tokens(1), 100))

	tw, err := stk.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(400), tw)

	pending, err := stk.GetPendingReward(1, aliceAddr, 30)
	require.NoError(t, err)
	assert.Equal(t, tokens(15), pending)
}

func TestUpdatePoolValidation(t *testing.T) {
	stk, _ := newTestStaking(t)

	err := stk.UpdatePool(env(ownerAddr, 10), 9, big.NewInt(1), tokens(1), 1)
	assert.ErrorIs(t, err, ErrPoolNotExists)

	err = stk.UpdatePool(env(aliceAddr, 10), 1, big.NewInt(1), tokens(1), 1)
	assert.ErrorIs(t, err, contracts.ErrUnauthorized)

	err = stk.UpdatePool(env(ownerAddr, 10), 1, new(big.Int), tokens(1), 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestRequestUnstake(t *testing.T) {
	stk, _ := newTestStaking(t)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))

	_, err := stk.RequestUnstake(env(aliceAddr, 20), 1, tokens(101))
	assert.ErrorIs(t, err, ErrInsufficientStake)

	reqID, err := stk.RequestUnstake(env(aliceAddr, 20), 1, tokens(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), reqID)

	req, err := stk.GetRequest(reqID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), req.Pool)
	assert.Equal(t, aliceAddr, req.Owner)
	assert.Equal(t, tokens(100), req.Amount)
	assert.Equal(t, uint32(120), req.UnlockBlock)
	assert.False(t, req.Processed)

	user, err := stk.GetUserInfo(1, aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, 0, user.StakedAmount.Sign())
	assert.Equal(t, []uint64{reqID}, user.Requests)

	// earning stopped at the request, not at processing
	pending, err := stk.GetPendingReward(1, aliceAddr, 50)
	require.NoError(t, err)
	assert.Equal(t, tokens(10), pending)
}

func TestRequestIDsGloballyIncreasing(t *testing.T) {
	stk, _ := newTestStaking(t)
	_, err := stk.AddPool(env(ownerAddr, 0), tokenAddr, big.NewInt(100), tokens(1), 100)
	require.NoError(t, err)

	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 2, tokens(100)))

	id1, err := stk.RequestUnstake(env(aliceAddr, 20), 1, tokens(10))
	require.NoError(t, err)
	id2, err := stk.RequestUnstake(env(aliceAddr, 20), 2, tokens(10))
	require.NoError(t, err)
	id3, err := stk.RequestUnstake(env(aliceAddr, 20), 1, tokens(10))
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, []uint64{id1, id2, id3})
}

func TestRequestUnstakeLockSaturates(t *testing.T) {
	stk, _ := newTestStaking(t)

	id, err := stk.AddPool(env(ownerAddr, 0), tokenAddr, big.NewInt(50), tokens(1), math.MaxUint32)
	require.NoError(t, err)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), id, tokens(100)))

	// 10 + MaxUint32 would wrap to an already-passed height
	reqID, err := stk.RequestUnstake(env(aliceAddr, 10), id, tokens(100))
	require.NoError(t, err)

	req, err := stk.GetRequest(reqID)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), req.UnlockBlock)

	err = stk.ProcessUnstake(env(aliceAddr, 11), id, reqID)
	assert.ErrorIs(t, err, ErrNotUnlockable)
}

func TestProcessUnstake(t *testing.T) {
	stk, tok := newTestStaking(t)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))
	reqID, err := stk.RequestUnstake(env(aliceAddr, 20), 1, tokens(100))
	require.NoError(t, err)

	assert.ErrorIs(t, stk.ProcessUnstake(env(aliceAddr, 20), 1, 9), ErrRequestNotFound)
	assert.ErrorIs(t, stk.ProcessUnstake(env(bobAddr, 120), 1, reqID), ErrRequestNotFound)

	// lock is 100 blocks from the request
	assert.ErrorIs(t, stk.ProcessUnstake(env(aliceAddr, 119), 1, reqID), ErrNotUnlockable)

	balanceBefore := tok.BalanceOf(aliceAddr)
	require.NoError(t, stk.ProcessUnstake(env(aliceAddr, 120), 1, reqID))
	assert.Equal(t, new(big.Int).Add(balanceBefore, tokens(100)), tok.BalanceOf(aliceAddr))

	// exactly once
	assert.ErrorIs(t, stk.ProcessUnstake(env(aliceAddr, 121), 1, reqID), ErrAlreadyProcessed)

	req, err := stk.GetRequest(reqID)
	require.NoError(t, err)
	assert.True(t, req.Processed)
}

func TestProcessUnstakeWrongPool(t *testing.T) {
	stk, _ := newTestStaking(t)
	_, err := stk.AddPool(env(ownerAddr, 0), tokenAddr, big.NewInt(100), tokens(1), 100)
	require.NoError(t, err)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))
	reqID, err := stk.RequestUnstake(env(aliceAddr, 20), 1, tokens(100))
	require.NoError(t, err)

	assert.ErrorIs(t, stk.ProcessUnstake(env(aliceAddr, 120), 2, reqID), ErrRequestNotFound)
}

func TestGetPendingRewardUnknownPool(t *testing.T) {
	stk, _ := newTestStaking(t)
	_, err := stk.GetPendingReward(9, aliceAddr, 10)
	assert.ErrorIs(t, err, ErrPoolNotExists)
}

type captureEmitter struct {
	records []contracts.Record
}

func (c *captureEmitter) Emit(r contracts.Record) {
	c.records = append(c.records, r)
}

func TestCustodyMovesNotSeparatelyRecorded(t *testing.T) {
	emitter := &captureEmitter{}
	stk, tok := newTestStakingEmit(t, emitter)
	mark := len(emitter.records)

	balanceBefore := tok.BalanceOf(aliceAddr)
	require.NoError(t, stk.Stake(env(aliceAddr, 10), 1, tokens(100)))
	require.NoError(t, stk.ClaimReward(env(aliceAddr, 20), 1))

	// both ops moved tokens through custody
	expected := new(big.Int).Sub(balanceBefore, tokens(100))
	expected.Add(expected, tokens(10))
	assert.Equal(t, expected, tok.BalanceOf(aliceAddr))

	// but the trace carries one record per operation, with no inner
	// token.transfer entries that could outlive a revert of the outer op
	ops := emitter.records[mark:]
	require.Len(t, ops, 2)
	assert.Equal(t, "staking.stake", ops[0].Op)
	assert.Equal(t, "staking.claimReward", ops[1].Op)
}
