// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package utils_test

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"

	"stamps/bitcoin"
	"stamps/bitcoin/utils"
)

func TestAddressScript(t *testing.T) {
	tests := []struct {
		address string
		class   txscript.ScriptClass
	}{
		{"tb1p9m40h0uj4uk37hsgvm97h4shhx2kyhehvfax8rysfhwjdp2ycvgqtxqsu0", txscript.WitnessV1TaprootTy},
		{"2MvdCXCZZsJc3g9gsXhWdAoTwzoTX2vq3yv", txscript.ScriptHashTy},
	}
	for _, test := range tests {
		script, err := utils.AddressScript(test.address, &chaincfg.TestNet3Params)
		require.NoError(t, err, test.address)
		require.Equal(t, test.class, txscript.GetScriptClass(script), test.address)

		_, err = utils.AddressScript(test.address, &chaincfg.MainNetParams)
		require.ErrorIs(t, err, utils.ErrInvalidAddress, test.address)
		require.ErrorIs(t, err, bitcoin.ErrValidation, test.address)
	}

	_, err := utils.DecodeAddress("not-an-address", &chaincfg.TestNet3Params)
	require.ErrorIs(t, err, utils.ErrInvalidAddress)

	require.Panics(t, func() { utils.MustAddressScript("", &chaincfg.TestNet3Params) })
}
