// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage provides slot-addressed typed storage for the ledger
// engines, similar to variable layout in a smart contract.
package storage

import (
	"github.com/openfi/ledger/ledger"
	"github.com/openfi/ledger/state"
)

// Context binds an engine's storage to its account address.
type Context struct {
	address ledger.Address
	state   *state.State
}

func NewContext(address ledger.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() ledger.Address {
	return c.address
}

// NameToSlot derives a storage slot from a variable name.
func NameToSlot(name string) ledger.Bytes32 {
	return ledger.BytesToBytes32([]byte(name))
}
