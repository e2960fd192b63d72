// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the typed rejection errors of the ledger engines.
//
// A revert aborts the whole operation with no partial state change. Each
// condition is a distinct sentinel so callers branch with errors.Is instead
// of parsing text.
package reverts

import (
	"errors"
)

type RevertError struct {
	message string
}

func New(message string) *RevertError {
	return &RevertError{
		message: message,
	}
}

func (e *RevertError) Error() string {
	return e.message
}

// IsRevert reports whether err is a typed revert, as opposed to an
// infrastructure failure.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	var re *RevertError
	return errors.As(err, &re)
}
