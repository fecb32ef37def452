// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package utils

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"stamps/bitcoin"
)

// ErrInvalidAddress defines address which can not be decoded for the network.
var ErrInvalidAddress = errors.New("invalid address")

// DecodeAddress decodes address and checks that it belongs to the network.
func DecodeAddress(address string, chainParams *chaincfg.Params) (btcutil.Address, error) {
	decoded, err := btcutil.DecodeAddress(address, chainParams)
	if err != nil {
		return nil, errors.Join(bitcoin.ErrValidation, fmt.Errorf("%w %q: %w", ErrInvalidAddress, address, err))
	}

	if !decoded.IsForNet(chainParams) {
		return nil, errors.Join(bitcoin.ErrValidation, fmt.Errorf("%w %q: not for %s", ErrInvalidAddress, address, chainParams.Name))
	}

	return decoded, nil
}

// AddressScript returns locking script paying to the address.
func AddressScript(address string, chainParams *chaincfg.Params) ([]byte, error) {
	decoded, err := DecodeAddress(address, chainParams)
	if err != nil {
		return nil, err
	}

	script, err := txscript.PayToAddrScript(decoded)
	if err != nil {
		return nil, errors.Join(bitcoin.ErrValidation, fmt.Errorf("%w %q: %w", ErrInvalidAddress, address, err))
	}

	return script, nil
}

// MustAddressScript uses AddressScript, panics in case of error.
func MustAddressScript(address string, chainParams *chaincfg.Params) []byte {
	script, err := AddressScript(address, chainParams)
	if err != nil {
		panic(err)
	}

	return script
}
