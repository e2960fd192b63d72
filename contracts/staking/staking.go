// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the block-reward staking ledger: per-pool
// deposits with proportional reward accrual through a lazily updated
// per-share accumulator, and two-phase withdrawals behind a block-count
// lock.
package staking

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/contracts/storage"
	"github.com/openfi/ledger/ledger"
	"github.com/openfi/ledger/log"
	"github.com/openfi/ledger/metrics"
	"github.com/openfi/ledger/state"
)

var (
	logger = log.WithContext("pkg", "staking")

	stakedGauge = metrics.GaugeVec("staking_pool_total_staked", []string{"pool"})

	slotOwner          = storage.NameToSlot("owner")
	slotPools          = storage.NameToSlot("pools")
	slotPoolCount      = storage.NameToSlot("pool-count")
	slotTotalWeight    = storage.NameToSlot("total-weight")
	slotUsers          = storage.NameToSlot("users")
	slotRequests       = storage.NameToSlot("unstake-requests")
	slotRequestCount   = storage.NameToSlot("unstake-request-count")
	slotRewardPerBlock = storage.NameToSlot("reward-per-block")
	slotRewardToken    = storage.NameToSlot("reward-token")
	slotStartBlock     = storage.NameToSlot("start-block")
)

// TokenLedger is the external value-transfer capability the staking ledger
// consumes for custody of staked and reward tokens. Custody moves happen
// inside a recorded staking operation, so they go through CustodyTransfer,
// which applies the full transfer pipeline without emitting a record of its
// own. An inner record would claim success even when the enclosing
// operation later reverts.
type TokenLedger interface {
	BalanceOf(addr ledger.Address) *big.Int
	CustodyTransfer(env contracts.Env, from, to ledger.Address, amount *big.Int) error
}

// TokenResolver resolves a token ledger by its address.
type TokenResolver func(addr ledger.Address) TokenLedger

// userKey is 8-byte pool id followed by the 20-byte address.
type userKey [28]byte

func newUserKey(pid uint64, addr ledger.Address) userKey {
	var k userKey
	binary.BigEndian.PutUint64(k[:8], pid)
	copy(k[8:], addr.Bytes())
	return k
}

func (k userKey) Bytes() []byte { return k[:] }

// Staking implements the block-reward staking ledger. Its own address is
// the custody account for staked tokens and the reward treasury.
type Staking struct {
	addr    ledger.Address
	state   *state.State
	emitter contracts.Emitter
	guard   contracts.Guard
	resolve TokenResolver

	owner          *storage.AddressSlot
	rewardToken    *storage.AddressSlot
	rewardPerBlock *storage.Uint256
	startBlock     *storage.Uint64Slot
	totalWeight    *storage.Uint256
	poolCount      *storage.Uint64Slot
	requestCount   *storage.Uint64Slot
	pools          *storage.Mapping[storage.Uint64Key, *Pool]
	users          *storage.Mapping[userKey, *UserInfo]
	requests       *storage.Mapping[storage.Uint64Key, *UnstakeRequest]
}

// New creates a staking ledger bound to the given address and state.
// The resolver supplies the token ledgers pools and rewards settle against.
func New(addr ledger.Address, st *state.State, emitter contracts.Emitter, resolve TokenResolver) *Staking {
	if emitter == nil {
		emitter = contracts.NopEmitter{}
	}
	ctx := storage.NewContext(addr, st)
	return &Staking{
		addr:    addr,
		state:   st,
		emitter: emitter,
		resolve: resolve,

		owner:          storage.NewAddressSlot(ctx, slotOwner),
		rewardToken:    storage.NewAddressSlot(ctx, slotRewardToken),
		rewardPerBlock: storage.NewUint256(ctx, slotRewardPerBlock),
		startBlock:     storage.NewUint64Slot(ctx, slotStartBlock),
		totalWeight:    storage.NewUint256(ctx, slotTotalWeight),
		poolCount:      storage.NewUint64Slot(ctx, slotPoolCount),
		requestCount:   storage.NewUint64Slot(ctx, slotRequestCount),
		pools:          storage.NewMapping[storage.Uint64Key, *Pool](ctx, slotPools),
		users:          storage.NewMapping[userKey, *UserInfo](ctx, slotUsers),
		requests:       storage.NewMapping[storage.Uint64Key, *UnstakeRequest](ctx, slotRequests),
	}
}

// Config is the construction-time configuration of the staking ledger.
type Config struct {
	Owner          ledger.Address
	RewardToken    ledger.Address
	RewardPerBlock *big.Int
	StartBlock     uint32
}

// Initialize seeds the ledger. Reward emission starts at StartBlock; the
// reward treasury is the ledger's own reward-token balance.
func (s *Staking) Initialize(cfg *Config) error {
	if cfg.Owner.IsZero() || cfg.RewardToken.IsZero() {
		return ErrInvalidParameter
	}
	if cfg.RewardPerBlock == nil || cfg.RewardPerBlock.Sign() <= 0 {
		return ErrInvalidParameter
	}
	s.owner.Set(cfg.Owner)
	s.rewardToken.Set(cfg.RewardToken)
	s.startBlock.Set(uint64(cfg.StartBlock))
	if err := s.rewardPerBlock.Set(cfg.RewardPerBlock); err != nil {
		return err
	}
	logger.Info("staking ledger initialized",
		"owner", cfg.Owner, "rewardPerBlock", cfg.RewardPerBlock, "startBlock", cfg.StartBlock)
	return nil
}

// AddPool creates a new pool with the next sequential id. Owner only.
func (s *Staking) AddPool(env contracts.Env, token ledger.Address, weight, minDeposit *big.Int, unstakeLockBlocks uint32) (uint64, error) {
	var id uint64
	err := s.runOp(env, "addPool", []contracts.Param{
		{Name: "token", Value: token.String()},
		{Name: "weight", Value: bigStr(weight)},
		{Name: "minDeposit", Value: bigStr(minDeposit)},
		{Name: "unstakeLockBlocks", Value: fmt.Sprintf("%d", unstakeLockBlocks)},
	}, func() error {
		if err := s.onlyOwner(env); err != nil {
			return err
		}
		if err := checkPoolParams(token, weight, minDeposit, unstakeLockBlocks); err != nil {
			return err
		}

		id = s.poolCount.Inc()
		last := env.BlockNumber
		if start := uint32(s.startBlock.Get()); start > last {
			last = start
		}
		pool := &Pool{
			Token:             token,
			Weight:            weight,
			LastRewardBlock:   last,
			AccRewardPerShare: new(big.Int),
			TotalStaked:       new(big.Int),
			MinDeposit:        minDeposit,
			UnstakeLockBlocks: unstakeLockBlocks,
			Exists:            true,
		}
		if err := s.pools.Set(storage.Uint64Key(id), pool); err != nil {
			return errors.Wrap(err, "failed to set pool")
		}
		return s.totalWeight.Add(weight)
	})
	return id, err
}

// UpdatePool changes a pool's weight, minimum deposit and unstake lock.
// The global total weight is re-based without settling the pool first; any
// unsettled reward at the old weight is computed against the new weight on
// next access. Kept as-is, pinned by test.
func (s *Staking) UpdatePool(env contracts.Env, id uint64, weight, minDeposit *big.Int, unstakeLockBlocks uint32) error {
	return s.runOp(env, "updatePool", []contracts.Param{
		{Name: "id", Value: fmt.Sprintf("%d", id)},
		{Name: "weight", Value: bigStr(weight)},
		{Name: "minDeposit", Value: bigStr(minDeposit)},
		{Name: "unstakeLockBlocks", Value: fmt.Sprintf("%d", unstakeLockBlocks)},
	}, func() error {
		if err := s.onlyOwner(env); err != nil {
			return err
		}
		pool, err := s.getPool(id)
		if err != nil {
			return err
		}
		if err := checkPoolParams(pool.Token, weight, minDeposit, unstakeLockBlocks); err != nil {
			return err
		}

		if err := s.totalWeight.Sub(pool.Weight); err != nil {
			return err
		}
		if err := s.totalWeight.Add(weight); err != nil {
			return err
		}
		pool.Weight = weight
		pool.MinDeposit = minDeposit
		pool.UnstakeLockBlocks = unstakeLockBlocks
		if err := s.pools.Set(storage.Uint64Key(id), pool); err != nil {
			return errors.Wrap(err, "failed to set pool")
		}
		return nil
	})
}

// Stake deposits amount into a pool for the caller. Rewards are settled
// first; the stake is increased by the amount actually received by the
// custody account, tolerating fee-on-transfer tokens.
func (s *Staking) Stake(env contracts.Env, id uint64, amount *big.Int) error {
	return s.runOp(env, "stake", []contracts.Param{
		{Name: "id", Value: fmt.Sprintf("%d", id)},
		{Name: "amount", Value: bigStr(amount)},
	}, func() error {
		pool, err := s.getPool(id)
		if err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return ErrInvalidAmount
		}
		if amount.Cmp(pool.MinDeposit) < 0 {
			return ErrBelowMinDeposit
		}

		user, err := s.getUser(id, env.Caller)
		if err != nil {
			return err
		}
		if err := s.settle(pool, user, env.BlockNumber); err != nil {
			return err
		}

		tok := s.resolve(pool.Token)
		before := tok.BalanceOf(s.addr)
		if err := tok.CustodyTransfer(env, env.Caller, s.addr, amount); err != nil {
			return err
		}
		received := new(big.Int).Sub(tok.BalanceOf(s.addr), before)
		if received.Sign() == 0 {
			return ErrInvalidAmount
		}

		user.StakedAmount.Add(user.StakedAmount, received)
		pool.TotalStaked.Add(pool.TotalStaked, received)
		rebaseDebt(pool, user)

		if err := s.saveUser(id, env.Caller, user); err != nil {
			return err
		}
		if err := s.pools.Set(storage.Uint64Key(id), pool); err != nil {
			return errors.Wrap(err, "failed to set pool")
		}
		s.reportStaked(id, pool)
		return nil
	})
}

// RequestUnstake starts a two-phase withdrawal: rewards are settled, the
// staked amount stops earning immediately, and a request unlocks after the
// pool's lock. It returns the request id.
func (s *Staking) RequestUnstake(env contracts.Env, id uint64, amount *big.Int) (uint64, error) {
	var reqID uint64
	err := s.runOp(env, "requestUnstake", []contracts.Param{
		{Name: "id", Value: fmt.Sprintf("%d", id)},
		{Name: "amount", Value: bigStr(amount)},
	}, func() error {
		pool, err := s.getPool(id)
		if err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return ErrInvalidAmount
		}

		user, err := s.getUser(id, env.Caller)
		if err != nil {
			return err
		}
		if amount.Cmp(user.StakedAmount) > 0 {
			return ErrInsufficientStake
		}
		if err := s.settle(pool, user, env.BlockNumber); err != nil {
			return err
		}

		user.StakedAmount.Sub(user.StakedAmount, amount)
		pool.TotalStaked.Sub(pool.TotalStaked, amount)
		rebaseDebt(pool, user)

		// saturate rather than wrap, a wrapped unlock height would be
		// immediately processable
		unlock := env.BlockNumber + pool.UnstakeLockBlocks
		if unlock < env.BlockNumber {
			unlock = math.MaxUint32
		}

		reqID = s.requestCount.Inc()
		req := &UnstakeRequest{
			Pool:        id,
			Owner:       env.Caller,
			Amount:      new(big.Int).Set(amount),
			UnlockBlock: unlock,
		}
		if err := s.requests.Set(storage.Uint64Key(reqID), req); err != nil {
			return errors.Wrap(err, "failed to set unstake request")
		}
		user.Requests = append(user.Requests, reqID)

		if err := s.saveUser(id, env.Caller, user); err != nil {
			return err
		}
		if err := s.pools.Set(storage.Uint64Key(id), pool); err != nil {
			return errors.Wrap(err, "failed to set pool")
		}
		s.reportStaked(id, pool)
		return nil
	})
	return reqID, err
}

// ProcessUnstake finalizes an unlocked request, transferring the staked
// tokens back to the caller. Succeeds at most once per request; no reward
// settlement happens here, the capital already stopped earning at request
// time.
func (s *Staking) ProcessUnstake(env contracts.Env, id, requestID uint64) error {
	return s.runOp(env, "processUnstake", []contracts.Param{
		{Name: "id", Value: fmt.Sprintf("%d", id)},
		{Name: "requestID", Value: fmt.Sprintf("%d", requestID)},
	}, func() error {
		pool, err := s.getPool(id)
		if err != nil {
			return err
		}
		req, err := s.requests.Get(storage.Uint64Key(requestID))
		if err != nil {
			return errors.Wrap(err, "failed to get unstake request")
		}
		if req.IsEmpty() || req.Pool != id || req.Owner != env.Caller {
			return ErrRequestNotFound
		}
		if req.Processed {
			return ErrAlreadyProcessed
		}
		if env.BlockNumber < req.UnlockBlock {
			return ErrNotUnlockable
		}

		req.Processed = true
		if err := s.requests.Set(storage.Uint64Key(requestID), req); err != nil {
			return errors.Wrap(err, "failed to set unstake request")
		}
		return s.resolve(pool.Token).CustodyTransfer(env, s.addr, env.Caller, req.Amount)
	})
}

// ClaimReward pays out the caller's pending reward from the treasury.
func (s *Staking) ClaimReward(env contracts.Env, id uint64) error {
	return s.runOp(env, "claimReward", []contracts.Param{
		{Name: "id", Value: fmt.Sprintf("%d", id)},
	}, func() error {
		pool, err := s.getPool(id)
		if err != nil {
			return err
		}
		user, err := s.getUser(id, env.Caller)
		if err != nil {
			return err
		}
		if err := s.settle(pool, user, env.BlockNumber); err != nil {
			return err
		}
		if user.PendingReward.Sign() == 0 {
			return ErrNoPendingReward
		}

		claimed := new(big.Int).Set(user.PendingReward)
		user.PendingReward = new(big.Int)
		user.FinishedReward.Add(user.FinishedReward, claimed)

		if err := s.saveUser(id, env.Caller, user); err != nil {
			return err
		}
		if err := s.pools.Set(storage.Uint64Key(id), pool); err != nil {
			return errors.Wrap(err, "failed to set pool")
		}
		return s.resolve(s.rewardToken.Get()).CustodyTransfer(env, s.addr, env.Caller, claimed)
	})
}

// GetPendingReward recomputes the would-be accumulator value without
// mutating state, reproducing the settlement arithmetic exactly.
func (s *Staking) GetPendingReward(id uint64, addr ledger.Address, blockNum uint32) (*big.Int, error) {
	pool, err := s.getPool(id)
	if err != nil {
		return nil, err
	}
	user, err := s.getUser(id, addr)
	if err != nil {
		return nil, err
	}

	acc := new(big.Int).Set(pool.AccRewardPerShare)
	if blockNum > pool.LastRewardBlock && pool.TotalStaked.Sign() > 0 {
		poolReward, err := s.poolReward(pool, blockNum)
		if err != nil {
			return nil, err
		}
		poolReward.Mul(poolReward, ledger.RewardScale)
		acc.Add(acc, poolReward.Div(poolReward, pool.TotalStaked))
	}

	owed := new(big.Int).Mul(user.StakedAmount, acc)
	owed.Div(owed, ledger.RewardScale)
	owed.Sub(owed, user.RewardDebt)
	return owed.Add(owed, user.PendingReward), nil
}

//
// Reward accrual
//

// settle advances the pool accumulator to blockNum and credits the user's
// accrued share to PendingReward. Mutates the given records only; callers
// persist them.
func (s *Staking) settle(pool *Pool, user *UserInfo, blockNum uint32) error {
	if err := s.updatePoolRewards(pool, blockNum); err != nil {
		return err
	}
	owed := new(big.Int).Mul(user.StakedAmount, pool.AccRewardPerShare)
	owed.Div(owed, ledger.RewardScale)
	owed.Sub(owed, user.RewardDebt)
	if owed.Sign() > 0 {
		user.PendingReward.Add(user.PendingReward, owed)
	}
	rebaseDebt(pool, user)
	return nil
}

// updatePoolRewards lazily advances the accumulator. When no blocks have
// elapsed nothing happens; when nothing is staked only lastRewardBlock
// advances.
func (s *Staking) updatePoolRewards(pool *Pool, blockNum uint32) error {
	if blockNum <= pool.LastRewardBlock {
		return nil
	}
	if pool.TotalStaked.Sign() == 0 {
		pool.LastRewardBlock = blockNum
		return nil
	}
	poolReward, err := s.poolReward(pool, blockNum)
	if err != nil {
		return err
	}
	poolReward.Mul(poolReward, ledger.RewardScale)
	pool.AccRewardPerShare.Add(pool.AccRewardPerShare, poolReward.Div(poolReward, pool.TotalStaked))
	pool.LastRewardBlock = blockNum
	return nil
}

// poolReward returns elapsedBlocks * rewardPerBlock * weight / totalWeight.
func (s *Staking) poolReward(pool *Pool, blockNum uint32) (*big.Int, error) {
	rpb, err := s.rewardPerBlock.Get()
	if err != nil {
		return nil, err
	}
	tw, err := s.totalWeight.Get()
	if err != nil {
		return nil, err
	}
	if tw.Sign() == 0 {
		return new(big.Int), nil
	}
	reward := new(big.Int).SetUint64(uint64(blockNum - pool.LastRewardBlock))
	reward.Mul(reward, rpb)
	reward.Mul(reward, pool.Weight)
	return reward.Div(reward, tw), nil
}

// rebaseDebt re-anchors the user's reward debt at the current accumulator,
// so the next settlement only credits emission after this point.
func rebaseDebt(pool *Pool, user *UserInfo) {
	debt := new(big.Int).Mul(user.StakedAmount, pool.AccRewardPerShare)
	user.RewardDebt = debt.Div(debt, ledger.RewardScale)
}

//
// Getters - no state change
//

// Address returns the ledger's own address: token custody and treasury.
func (s *Staking) Address() ledger.Address {
	return s.addr
}

// Owner returns the privileged owner identity.
func (s *Staking) Owner() ledger.Address {
	return s.owner.Get()
}

// PoolCount returns the number of pools ever created.
func (s *Staking) PoolCount() uint64 {
	return s.poolCount.Get()
}

// GetPool returns a pool record.
func (s *Staking) GetPool(id uint64) (*Pool, error) {
	return s.getPool(id)
}

// GetUserInfo returns the stake record of addr in the given pool.
func (s *Staking) GetUserInfo(id uint64, addr ledger.Address) (*UserInfo, error) {
	return s.getUser(id, addr)
}

// GetRequest returns an unstake request record.
func (s *Staking) GetRequest(requestID uint64) (*UnstakeRequest, error) {
	return s.requests.Get(storage.Uint64Key(requestID))
}

// TotalWeight returns the global weight denominator.
func (s *Staking) TotalWeight() (*big.Int, error) {
	return s.totalWeight.Get()
}

//
// internals
//

func (s *Staking) getPool(id uint64) (*Pool, error) {
	pool, err := s.pools.Get(storage.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if pool.IsEmpty() {
		return nil, ErrPoolNotExists
	}
	return pool, nil
}

func (s *Staking) getUser(id uint64, addr ledger.Address) (*UserInfo, error) {
	user, err := s.users.Get(newUserKey(id, addr))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user stake")
	}
	user.normalize()
	return user, nil
}

func (s *Staking) saveUser(id uint64, addr ledger.Address, user *UserInfo) error {
	if err := s.users.Set(newUserKey(id, addr), user); err != nil {
		return errors.Wrap(err, "failed to set user stake")
	}
	return nil
}

func (s *Staking) onlyOwner(env contracts.Env) error {
	if env.Caller != s.owner.Get() {
		return contracts.ErrUnauthorized
	}
	return nil
}

func (s *Staking) reportStaked(id uint64, pool *Pool) {
	whole := new(big.Int).Div(pool.TotalStaked, ledger.TokenUnit)
	if whole.IsInt64() {
		stakedGauge.SetWithLabel(whole.Int64(), map[string]string{"pool": fmt.Sprintf("%d", id)})
	}
}

// runOp applies one state-changing operation atomically: the re-entrancy
// guard is held for its duration, and any error rolls the state back to the
// entry checkpoint before the operation record is emitted.
func (s *Staking) runOp(env contracts.Env, op string, params []contracts.Param, fn func() error) error {
	emit := func(err error) {
		r := contracts.Record{
			Op:     "staking." + op,
			Caller: env.Caller,
			Block:  env.BlockNumber,
			Time:   env.Timestamp,
			Params: params,
		}
		if err != nil {
			r.Err = err.Error()
		}
		s.emitter.Emit(r)
	}

	if err := s.guard.Enter(); err != nil {
		emit(err)
		return err
	}
	defer s.guard.Leave()

	cp := s.state.NewCheckpoint()
	if err := fn(); err != nil {
		s.state.RevertTo(cp)
		emit(err)
		return err
	}
	emit(nil)
	return nil
}

func checkPoolParams(token ledger.Address, weight, minDeposit *big.Int, unstakeLockBlocks uint32) error {
	if token.IsZero() {
		return ErrInvalidParameter
	}
	if weight == nil || weight.Sign() <= 0 {
		return ErrInvalidParameter
	}
	if minDeposit == nil || minDeposit.Sign() <= 0 {
		return ErrInvalidParameter
	}
	if unstakeLockBlocks == 0 {
		return ErrInvalidParameter
	}
	return nil
}

func bigStr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
