// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

// journal records previous values of mutated entries so that any suffix of
// writes can be undone. It acts with save-restore/snapshot-revert manner.
type journal struct {
	entries []journalEntry
}

type journalEntry struct {
	key     any
	prev    any
	existed bool
	undo    func(key, prev any, existed bool)
}

// depth returns the current length of the journal, usable as a checkpoint.
func (j *journal) depth() int {
	return len(j.entries)
}

// record appends an undo entry for a write about to happen.
func (j *journal) record(key, prev any, existed bool, undo func(key, prev any, existed bool)) {
	j.entries = append(j.entries, journalEntry{key, prev, existed, undo})
}

// revertTo undoes all writes made after the given checkpoint, newest first.
func (j *journal) revertTo(depth int) {
	for i := len(j.entries) - 1; i >= depth; i-- {
		e := &j.entries[i]
		e.undo(e.key, e.prev, e.existed)
	}
	j.entries = j.entries[:depth]
}
