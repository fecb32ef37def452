// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package bitcoin

import (
	"errors"
)

// Error classes. Concrete errors are joined with one of them,
// so callers can distinguish failure kinds with errors.Is.
var (
	// ErrValidation defines malformed input: operation fields, addresses, fee rate, payload size.
	ErrValidation = errors.New("validation failed")
	// ErrBusinessRule defines token state conflicts: already deployed, not deployed, minted out.
	ErrBusinessRule = errors.New("business rule violated")
	// ErrInsufficientNativeBalance defines that no utxo covers outputs and miner fee.
	ErrInsufficientNativeBalance = errors.New("insufficient native balance")
	// ErrKeyEncodingExhausted defines that data segment could not be encoded as a public key.
	ErrKeyEncodingExhausted = errors.New("key encoding attempts exhausted")
	// ErrChainData defines failure of the chain data or token status collaborators.
	ErrChainData = errors.New("chain data unavailable")
)
