// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x00000000000000000000000000000000000a11ce")
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000a11ce", addr.String())

	// prefixless form is accepted too
	addr2, err := ParseAddress("00000000000000000000000000000000000a11ce")
	require.NoError(t, err)
	assert.Equal(t, *addr, *addr2)

	_, err = ParseAddress("0xa11ce")
	assert.Error(t, err)
	_, err = ParseAddress("zz000000000000000000000000000000000a11ce")
	assert.Error(t, err)
	_, err = ParseAddress("1z00000000000000000000000000000000000a11ce")
	assert.Error(t, err)
}

func TestAddressIsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, MustParseAddress("0x0000000000000000000000000000000000000001").IsZero())
}

func TestBytesToAddress(t *testing.T) {
	// short input is left-padded
	assert.Equal(t,
		MustParseAddress("0x0000000000000000000000000000000000000102"),
		BytesToAddress([]byte{1, 2}))

	// long input keeps the rightmost bytes
	long := make([]byte, 21)
	long[0] = 0xff
	long[20] = 0x07
	assert.Equal(t,
		MustParseAddress("0x0000000000000000000000000000000000000007"),
		BytesToAddress(long))
}

func TestParseBytes32(t *testing.T) {
	b, err := ParseBytes32("0x0102000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), b[1])
	assert.False(t, b.IsZero())

	_, err = ParseBytes32("0x0102")
	assert.Error(t, err)
}

func TestBytesToBytes32(t *testing.T) {
	b := BytesToBytes32([]byte{1, 2})
	assert.Equal(t, byte(1), b[30])
	assert.Equal(t, byte(2), b[31])

	long := make([]byte, 33)
	long[32] = 0x09
	assert.Equal(t, byte(0x09), BytesToBytes32(long)[31])
}
