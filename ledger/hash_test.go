// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlake2b(t *testing.T) {
	h := Blake2b([]byte("hello"))
	assert.False(t, h.IsZero())
	assert.Equal(t, h, Blake2b([]byte("hello")))
	assert.NotEqual(t, h, Blake2b([]byte("hello!")))

	// multi-part hashing equals hashing the concatenation
	assert.Equal(t, Blake2b([]byte("hello")), Blake2b([]byte("he"), []byte("llo")))
}

func TestKeccak256(t *testing.T) {
	// well-known keccak256 of the empty input
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256().String())
}
