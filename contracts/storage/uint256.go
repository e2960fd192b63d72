// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/openfi/ledger/ledger"
)

// Uint256 is a wrapper for storage and retrieval of an uint256, similar to
// storing an uint256 variable in a smart contract. Values are stored as
// 32-byte big-endian words.
type Uint256 struct {
	context *Context
	pos     ledger.Bytes32
}

func NewUint256(context *Context, slot ledger.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (*big.Int, error) {
	raw := u.context.state.GetRawStorage(u.context.address, u.pos)
	if len(raw) == 0 {
		return new(big.Int), nil
	}
	if len(raw) > 32 {
		return nil, errors.New("stored word exceeds 256 bits")
	}
	var word uint256.Int
	word.SetBytes(raw)
	return word.ToBig(), nil
}

func (u *Uint256) Set(value *big.Int) error {
	word, overflow := uint256.FromBig(value)
	if overflow || value.Sign() < 0 {
		return errors.New("value out of uint256 range")
	}
	if word.IsZero() {
		u.context.state.SetRawStorage(u.context.address, u.pos, nil)
		return nil
	}
	b32 := word.Bytes32()
	u.context.state.SetRawStorage(u.context.address, u.pos, b32[:])
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(cur.Add(cur, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	cur.Sub(cur, value)
	if cur.Sign() < 0 {
		return errors.New("uint256 underflow")
	}
	return u.Set(cur)
}
