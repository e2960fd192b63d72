// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"errors"
	"fmt"
	"math/big"
)

// Bps is a percentage expressed in basis points (1/10000).
// The zero value is a valid 0% rate.
type Bps uint16

// NewBps validates and converts a raw value into Bps.
func NewBps(v uint64) (Bps, error) {
	if v > BpsDenominator {
		return 0, errors.New("basis points out of range")
	}
	return Bps(v), nil
}

// MustBps converts a raw value into Bps, panic when out of range.
func MustBps(v uint64) Bps {
	bps, err := NewBps(v)
	if err != nil {
		panic(fmt.Sprintf("bps %d: %v", v, err))
	}
	return bps
}

// Of returns amount * b / 10000, truncating.
func (b Bps) Of(amount *big.Int) *big.Int {
	v := new(big.Int).Mul(amount, big.NewInt(int64(b)))
	return v.Div(v, big.NewInt(BpsDenominator))
}

// String implements stringer.
func (b Bps) String() string {
	return fmt.Sprintf("%d.%02d%%", b/100, b%100)
}
