// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

// Guard is a single-flight re-entrancy guard. Operations that move value
// before finishing their own bookkeeping acquire it on entry and release it
// on every exit path.
type Guard struct {
	busy bool
}

// Enter acquires the guard, rejecting re-entrant calls.
func (g *Guard) Enter() error {
	if g.busy {
		return ErrReentered
	}
	g.busy = true
	return nil
}

// Leave releases the guard.
func (g *Guard) Leave() {
	g.busy = false
}
