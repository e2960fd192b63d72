// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfi/ledger/ledger"
)

var (
	addr1 = ledger.MustParseAddress("0x0000000000000000000000000000000000000001")
	addr2 = ledger.MustParseAddress("0x0000000000000000000000000000000000000002")
	key1  = ledger.Blake2b([]byte("key1"))
)

func TestBalances(t *testing.T) {
	st := New()
	assert.Equal(t, 0, st.GetBalance(addr1).Sign())

	st.SetBalance(addr1, big.NewInt(100))
	assert.Equal(t, big.NewInt(100), st.GetBalance(addr1))

	st.AddBalance(addr1, big.NewInt(50))
	assert.Equal(t, big.NewInt(150), st.GetBalance(addr1))

	assert.False(t, st.SubBalance(addr1, big.NewInt(151)))
	assert.Equal(t, big.NewInt(150), st.GetBalance(addr1))
	assert.True(t, st.SubBalance(addr1, big.NewInt(150)))
	assert.Equal(t, 0, st.GetBalance(addr1).Sign())
}

func TestGetBalanceReturnsCopy(t *testing.T) {
	st := New()
	st.SetBalance(addr1, big.NewInt(100))
	st.GetBalance(addr1).SetInt64(7)
	assert.Equal(t, big.NewInt(100), st.GetBalance(addr1))
}

func TestRawStorage(t *testing.T) {
	st := New()
	assert.Empty(t, st.GetRawStorage(addr1, key1))

	st.SetRawStorage(addr1, key1, []byte{0x01})
	assert.Equal(t, []byte{0x01}, []byte(st.GetRawStorage(addr1, key1)))

	// same key under a different address is distinct
	assert.Empty(t, st.GetRawStorage(addr2, key1))

	st.SetRawStorage(addr1, key1, nil)
	assert.Empty(t, st.GetRawStorage(addr1, key1))
}

func TestEncodeDecodeStorage(t *testing.T) {
	st := New()
	require.NoError(t, st.EncodeStorage(addr1, key1, func() ([]byte, error) {
		return []byte{0xc0}, nil
	}))

	var seen []byte
	require.NoError(t, st.DecodeStorage(addr1, key1, func(raw []byte) error {
		seen = raw
		return nil
	}))
	assert.Equal(t, []byte{0xc0}, seen)
}

func TestCheckpointRevert(t *testing.T) {
	st := New()
	st.SetBalance(addr1, big.NewInt(10))
	st.SetRawStorage(addr1, key1, []byte{0x01})

	cp := st.NewCheckpoint()
	st.SetBalance(addr1, big.NewInt(999))
	st.SetBalance(addr2, big.NewInt(5))
	st.SetRawStorage(addr1, key1, []byte{0x02})

	st.RevertTo(cp)
	assert.Equal(t, big.NewInt(10), st.GetBalance(addr1))
	assert.Equal(t, 0, st.GetBalance(addr2).Sign())
	assert.Equal(t, []byte{0x01}, []byte(st.GetRawStorage(addr1, key1)))
}

func TestNestedCheckpoints(t *testing.T) {
	st := New()
	st.SetBalance(addr1, big.NewInt(1))

	outer := st.NewCheckpoint()
	st.SetBalance(addr1, big.NewInt(2))

	inner := st.NewCheckpoint()
	st.SetBalance(addr1, big.NewInt(3))
	st.RevertTo(inner)
	assert.Equal(t, big.NewInt(2), st.GetBalance(addr1))

	st.RevertTo(outer)
	assert.Equal(t, big.NewInt(1), st.GetBalance(addr1))
}

func TestRevertRestoresDeletedSlot(t *testing.T) {
	st := New()
	cp := st.NewCheckpoint()
	st.SetRawStorage(addr1, key1, []byte{0x01})
	st.RevertTo(cp)
	assert.Empty(t, st.GetRawStorage(addr1, key1))
}
