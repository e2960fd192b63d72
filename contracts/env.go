// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package contracts holds the execution environment shared by the ledger
// engines: caller identity, clock inputs, re-entrancy guarding and
// operation records.
package contracts

import (
	"github.com/openfi/ledger/contracts/reverts"
	"github.com/openfi/ledger/ledger"
)

// Errors shared by all engines.
var (
	ErrUnauthorized = reverts.New("caller is not the owner")
	ErrReentered    = reverts.New("reentrant call")
)

// Env carries the per-operation inputs supplied by the host environment:
// who is calling, and the monotonically non-decreasing counters the engines
// compare against. The engines never read ambient time.
type Env struct {
	Caller      ledger.Address
	BlockNumber uint32
	Timestamp   uint64
}

// NewEnv creates an execution environment value.
func NewEnv(caller ledger.Address, blockNumber uint32, timestamp uint64) Env {
	return Env{Caller: caller, BlockNumber: blockNumber, Timestamp: timestamp}
}
