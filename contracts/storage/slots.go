// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"encoding/binary"

	"github.com/openfi/ledger/ledger"
)

// AddressSlot stores a single address, similar to an address variable in a
// smart contract. The zero value reads back as the null address.
type AddressSlot struct {
	context *Context
	pos     ledger.Bytes32
}

func NewAddressSlot(context *Context, slot ledger.Bytes32) *AddressSlot {
	return &AddressSlot{context: context, pos: slot}
}

func (a *AddressSlot) Get() ledger.Address {
	raw := a.context.state.GetRawStorage(a.context.address, a.pos)
	return ledger.BytesToAddress(raw)
}

func (a *AddressSlot) Set(addr ledger.Address) {
	if addr.IsZero() {
		a.context.state.SetRawStorage(a.context.address, a.pos, nil)
		return
	}
	a.context.state.SetRawStorage(a.context.address, a.pos, addr.Bytes())
}

// BoolSlot stores a single flag. Absence reads back as false.
type BoolSlot struct {
	context *Context
	pos     ledger.Bytes32
}

func NewBoolSlot(context *Context, slot ledger.Bytes32) *BoolSlot {
	return &BoolSlot{context: context, pos: slot}
}

func (b *BoolSlot) Get() bool {
	return len(b.context.state.GetRawStorage(b.context.address, b.pos)) > 0
}

func (b *BoolSlot) Set(v bool) {
	if v {
		b.context.state.SetRawStorage(b.context.address, b.pos, []byte{1})
	} else {
		b.context.state.SetRawStorage(b.context.address, b.pos, nil)
	}
}

// Uint64Slot stores a single counter-sized integer.
type Uint64Slot struct {
	context *Context
	pos     ledger.Bytes32
}

func NewUint64Slot(context *Context, slot ledger.Bytes32) *Uint64Slot {
	return &Uint64Slot{context: context, pos: slot}
}

func (u *Uint64Slot) Get() uint64 {
	raw := u.context.state.GetRawStorage(u.context.address, u.pos)
	if len(raw) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(raw)
}

func (u *Uint64Slot) Set(v uint64) {
	if v == 0 {
		u.context.state.SetRawStorage(u.context.address, u.pos, nil)
		return
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	u.context.state.SetRawStorage(u.context.address, u.pos, b)
}

// Inc increments the counter and returns the new value.
func (u *Uint64Slot) Inc() uint64 {
	v := u.Get() + 1
	u.Set(v)
	return v
}

// Uint64Key adapts a uint64 into a mapping key.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k))
	return b
}
