// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides the in-memory world state of the accounting engines.
//
// The state holds account balances and per-account raw storage, with
// checkpoint/revert semantics so that every engine operation applies
// all-or-nothing.
package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/openfi/ledger/ledger"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

type storageKey struct {
	addr ledger.Address
	key  ledger.Bytes32
}

// State manages the world state.
type State struct {
	balances map[ledger.Address]*big.Int
	storage  map[storageKey]rlp.RawValue
	journal  journal
}

// New creates an empty state.
func New() *State {
	return &State{
		balances: make(map[ledger.Address]*big.Int),
		storage:  make(map[storageKey]rlp.RawValue),
	}
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr ledger.Address) *big.Int {
	if b, ok := s.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// SetBalance sets balance for the given address.
func (s *State) SetBalance(addr ledger.Address, balance *big.Int) {
	prev, existed := s.balances[addr]
	s.journal.record(addr, prev, existed, func(key, prev any, existed bool) {
		if existed {
			s.balances[key.(ledger.Address)] = prev.(*big.Int)
		} else {
			delete(s.balances, key.(ledger.Address))
		}
	})
	s.balances[addr] = new(big.Int).Set(balance)
}

// AddBalance adds amount to the balance of the given address.
func (s *State) AddBalance(addr ledger.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	s.SetBalance(addr, new(big.Int).Add(s.GetBalance(addr), amount))
}

// SubBalance subtracts amount from the balance of the given address.
// Returns false without mutating if the balance is insufficient.
func (s *State) SubBalance(addr ledger.Address, amount *big.Int) bool {
	bal := s.GetBalance(addr)
	if bal.Cmp(amount) < 0 {
		return false
	}
	if amount.Sign() != 0 {
		s.SetBalance(addr, bal.Sub(bal, amount))
	}
	return true
}

// GetRawStorage returns the raw storage value for the given key.
func (s *State) GetRawStorage(addr ledger.Address, key ledger.Bytes32) rlp.RawValue {
	return s.storage[storageKey{addr, key}]
}

// SetRawStorage sets the raw storage value for the given key.
// An empty raw value deletes the entry.
func (s *State) SetRawStorage(addr ledger.Address, key ledger.Bytes32, raw rlp.RawValue) {
	sk := storageKey{addr, key}
	prev, existed := s.storage[sk]
	s.journal.record(sk, prev, existed, func(key, prev any, existed bool) {
		if existed {
			s.storage[key.(storageKey)] = prev.(rlp.RawValue)
		} else {
			delete(s.storage, key.(storageKey))
		}
	})
	if len(raw) == 0 {
		delete(s.storage, sk)
		return
	}
	s.storage[sk] = raw
}

// EncodeStorage sets storage value encoded by given enc method.
func (s *State) EncodeStorage(addr ledger.Address, key ledger.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage gets and decodes storage value by given dec method.
func (s *State) DecodeStorage(addr ledger.Address, key ledger.Bytes32, dec func([]byte) error) error {
	if err := dec(s.GetRawStorage(addr, key)); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.journal.depth()
}

// RevertTo reverts to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.journal.revertTo(revision)
}
