// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/contracts/reverts"
	"github.com/openfi/ledger/contracts/staking"
	"github.com/openfi/ledger/contracts/token"
	"github.com/openfi/ledger/genesis"
	"github.com/openfi/ledger/ledger"
)

// Scenario is a declarative deployment plus a sequence of operations to
// replay against it.
type Scenario struct {
	Genesis GenesisConfig `yaml:"genesis"`
	Steps   []Step        `yaml:"steps"`
}

type GenesisConfig struct {
	Timestamp uint64         `yaml:"timestamp"`
	Token     TokenConfig    `yaml:"token"`
	Allocs    []AllocConfig  `yaml:"allocs"`
	Staking   *StakingConfig `yaml:"staking"`
}

type TokenConfig struct {
	Address     string `yaml:"address"`
	Owner       string `yaml:"owner"`
	TotalSupply string `yaml:"totalSupply"`
	BuyTaxBps   uint16 `yaml:"buyTaxBps"`
	SellTaxBps  uint16 `yaml:"sellTaxBps"`

	Split struct {
		MarketingShareBps uint16 `yaml:"marketingShareBps"`
		LiquidityShareBps uint16 `yaml:"liquidityShareBps"`
		DevShareBps       uint16 `yaml:"devShareBps"`
		MarketingWallet   string `yaml:"marketingWallet"`
		LiquidityWallet   string `yaml:"liquidityWallet"`
		DevWallet         string `yaml:"devWallet"`
	} `yaml:"split"`

	Limits struct {
		MaxTxAmount        string `yaml:"maxTxAmount"`
		MaxWalletAmount    string `yaml:"maxWalletAmount"`
		MaxDailySellAmount string `yaml:"maxDailySellAmount"`
		MaxDailyBuys       uint64 `yaml:"maxDailyBuys"`
	} `yaml:"limits"`
}

type AllocConfig struct {
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

type StakingConfig struct {
	Address        string       `yaml:"address"`
	Owner          string       `yaml:"owner"`
	RewardPerBlock string       `yaml:"rewardPerBlock"`
	StartBlock     uint32       `yaml:"startBlock"`
	Treasury       string       `yaml:"treasury"`
	Pools          []PoolConfig `yaml:"pools"`
}

type PoolConfig struct {
	Token             string `yaml:"token"`
	Weight            string `yaml:"weight"`
	MinDeposit        string `yaml:"minDeposit"`
	UnstakeLockBlocks uint32 `yaml:"unstakeLockBlocks"`
}

// Step is one replayed operation. Only the fields its op consumes are read.
type Step struct {
	Op     string `yaml:"op"`
	Caller string `yaml:"caller"`
	Block  uint32 `yaml:"block"`
	Time   uint64 `yaml:"time"`

	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Amount  string `yaml:"amount"`
	Address string `yaml:"address"`
	Flag    bool   `yaml:"flag"`

	BuyTaxBps  uint16 `yaml:"buyTaxBps"`
	SellTaxBps uint16 `yaml:"sellTaxBps"`

	Pool              uint64 `yaml:"pool"`
	Request           uint64 `yaml:"request"`
	Weight            string `yaml:"weight"`
	MinDeposit        string `yaml:"minDeposit"`
	UnstakeLockBlocks uint32 `yaml:"unstakeLockBlocks"`
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	return &s, nil
}

// build assembles the genesis ledger described by the scenario.
func (s *Scenario) build(emitter contracts.Emitter) (*genesis.Ledger, error) {
	tc := &s.Genesis.Token
	tokenAddr, err := parseAddr(tc.Address)
	if err != nil {
		return nil, err
	}
	owner, err := parseAddr(tc.Owner)
	if err != nil {
		return nil, err
	}
	supply, err := parseAmount(tc.TotalSupply)
	if err != nil {
		return nil, err
	}
	marketing, err := parseAddr(tc.Split.MarketingWallet)
	if err != nil {
		return nil, err
	}
	liquidity, err := parseAddr(tc.Split.LiquidityWallet)
	if err != nil {
		return nil, err
	}
	dev, err := parseAddr(tc.Split.DevWallet)
	if err != nil {
		return nil, err
	}
	maxTx, err := parseAmount(tc.Limits.MaxTxAmount)
	if err != nil {
		return nil, err
	}
	maxWallet, err := parseAmount(tc.Limits.MaxWalletAmount)
	if err != nil {
		return nil, err
	}
	maxDailySell, err := parseAmount(tc.Limits.MaxDailySellAmount)
	if err != nil {
		return nil, err
	}

	builder := genesis.NewBuilder().
		Timestamp(s.Genesis.Timestamp).
		Emitter(emitter).
		Token(tokenAddr, &token.Config{
			Owner:       owner,
			TotalSupply: supply,
			Rates: token.TaxRates{
				Buy:  ledger.Bps(tc.BuyTaxBps),
				Sell: ledger.Bps(tc.SellTaxBps),
			},
			Split: token.TaxSplit{
				MarketingShare:  ledger.Bps(tc.Split.MarketingShareBps),
				LiquidityShare:  ledger.Bps(tc.Split.LiquidityShareBps),
				DevShare:        ledger.Bps(tc.Split.DevShareBps),
				MarketingWallet: marketing,
				LiquidityWallet: liquidity,
				DevWallet:       dev,
			},
			Limits: token.Limits{
				MaxTxAmount:        maxTx,
				MaxWalletAmount:    maxWallet,
				MaxDailySellAmount: maxDailySell,
				MaxDailyBuys:       tc.Limits.MaxDailyBuys,
			},
		})

	for _, a := range s.Genesis.Allocs {
		addr, err := parseAddr(a.Address)
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount(a.Amount)
		if err != nil {
			return nil, err
		}
		builder.Alloc(addr, amount)
	}

	if sc := s.Genesis.Staking; sc != nil {
		stakingAddr, err := parseAddr(sc.Address)
		if err != nil {
			return nil, err
		}
		stakingOwner := owner
		if sc.Owner != "" {
			if stakingOwner, err = parseAddr(sc.Owner); err != nil {
				return nil, err
			}
		}
		rpb, err := parseAmount(sc.RewardPerBlock)
		if err != nil {
			return nil, err
		}
		builder.Staking(stakingAddr, &staking.Config{
			Owner:          stakingOwner,
			RewardToken:    tokenAddr,
			RewardPerBlock: rpb,
			StartBlock:     sc.StartBlock,
		})
		if sc.Treasury != "" {
			treasury, err := parseAmount(sc.Treasury)
			if err != nil {
				return nil, err
			}
			builder.Treasury(treasury)
		}
		for _, p := range sc.Pools {
			pt, err := parseAddr(p.Token)
			if err != nil {
				return nil, err
			}
			weight, err := parseAmount(p.Weight)
			if err != nil {
				return nil, err
			}
			minDeposit, err := parseAmount(p.MinDeposit)
			if err != nil {
				return nil, err
			}
			builder.Pool(pt, weight, minDeposit, p.UnstakeLockBlocks)
		}
	}

	return builder.Build()
}

// run replays the scenario's steps. Reverts are expected outcomes and only
// logged; any other failure aborts the replay.
func (s *Scenario) run(l *genesis.Ledger) error {
	for i, step := range s.Steps {
		if err := applyStep(l, &step); err != nil {
			if reverts.IsRevert(err) {
				log.Info("step reverted", "step", i, "op", step.Op, "err", err)
				continue
			}
			return errors.Wrapf(err, "step %d (%s)", i, step.Op)
		}
		log.Info("step applied", "step", i, "op", step.Op, "block", step.Block)
	}
	return nil
}

func applyStep(l *genesis.Ledger, step *Step) error {
	caller, err := parseAddr(step.Caller)
	if err != nil {
		return err
	}
	env := contracts.NewEnv(caller, step.Block, step.Time)

	switch step.Op {
	case "transfer":
		from := caller
		if step.From != "" {
			if from, err = parseAddr(step.From); err != nil {
				return err
			}
		}
		to, err := parseAddr(step.To)
		if err != nil {
			return err
		}
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}
		return l.Token.Transfer(env, from, to, amount)

	case "enableTrading":
		return l.Token.EnableTrading(env)

	case "emergencyStop":
		return l.Token.EmergencyStop(env)

	case "setPair":
		addr, err := parseAddr(step.Address)
		if err != nil {
			return err
		}
		return l.Token.SetPair(env, addr)

	case "setExemptFromTax":
		addr, err := parseAddr(step.Address)
		if err != nil {
			return err
		}
		return l.Token.SetExemptFromTax(env, addr, step.Flag)

	case "setExemptFromLimit":
		addr, err := parseAddr(step.Address)
		if err != nil {
			return err
		}
		return l.Token.SetExemptFromLimit(env, addr, step.Flag)

	case "updateTaxRates":
		return l.Token.UpdateTaxRates(env, ledger.Bps(step.BuyTaxBps), ledger.Bps(step.SellTaxBps))

	case "addPool":
		addr, err := parseAddr(step.Address)
		if err != nil {
			return err
		}
		weight, err := parseAmount(step.Weight)
		if err != nil {
			return err
		}
		minDeposit, err := parseAmount(step.MinDeposit)
		if err != nil {
			return err
		}
		_, err = l.Staking.AddPool(env, addr, weight, minDeposit, step.UnstakeLockBlocks)
		return err

	case "stake":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}
		return l.Staking.Stake(env, step.Pool, amount)

	case "requestUnstake":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}
		_, err = l.Staking.RequestUnstake(env, step.Pool, amount)
		return err

	case "processUnstake":
		return l.Staking.ProcessUnstake(env, step.Pool, step.Request)

	case "claimReward":
		return l.Staking.ClaimReward(env, step.Pool)

	default:
		return errors.Errorf("unknown op %q", step.Op)
	}
}

func parseAddr(s string) (ledger.Address, error) {
	addr, err := ledger.ParseAddress(s)
	if err != nil {
		return ledger.Address{}, errors.Wrapf(err, "bad address %q", s)
	}
	return *addr, nil
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("bad amount %q", s)
	}
	return v, nil
}
