// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package txbuilder

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"

	"stamps/bitcoin"
)

// InsufficientError is the error type to describe insufficient balance errors with details.
// Funding utxo must be strictly greater than Need.
type InsufficientError struct {
	Need btcutil.Amount
	Have btcutil.Amount
}

// NewInsufficientError is a constructor for InsufficientError.
func NewInsufficientError(need, have btcutil.Amount) *InsufficientError {
	return &InsufficientError{Need: need, Have: have}
}

// Error returns error description.
func (e *InsufficientError) Error() string {
	return fmt.Sprintf("%s: need more than %d sat, have %d sat", bitcoin.ErrInsufficientNativeBalance, int64(e.Need), int64(e.Have))
}

// Is implements comparator method for [errors] package.
func (e *InsufficientError) Is(target error) bool {
	return target == bitcoin.ErrInsufficientNativeBalance
}
