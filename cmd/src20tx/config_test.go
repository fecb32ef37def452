// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package main

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"

	"stamps/bitcoin/src20/encoder"
)

func TestNetworkParams(t *testing.T) {
	tests := []struct {
		name   string
		params *chaincfg.Params
	}{
		{name: "mainnet", params: &chaincfg.MainNetParams},
		{name: "testnet3", params: &chaincfg.TestNet3Params},
		{name: "regtest", params: &chaincfg.RegressionNetParams},
		{name: "signet", params: &chaincfg.SigNetParams},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			params, err := networkParams(test.name)
			require.NoError(t, err)
			require.Equal(t, test.params.Name, params.Name)
		})
	}

	_, err := networkParams("simnet")
	require.Error(t, err)
}

func TestEncoderConfig(t *testing.T) {
	o := options{
		Network:         "testnet3",
		RecipientValue:  1000,
		DataOutputValue: 900,
		MaxDataOutputs:  8,
	}

	config, err := o.encoderConfig()
	require.NoError(t, err)
	require.Equal(t, chaincfg.TestNet3Params.Name, config.Network.Name)
	require.Equal(t, btcutil.Amount(1000), config.RecipientValue)
	require.Equal(t, btcutil.Amount(900), config.DataOutputValue)
	require.Equal(t, 8, config.MaxDataOutputs)
	require.Equal(t, encoder.DefaultConfig().Sequence, config.Sequence)

	t.Run("invalid values", func(t *testing.T) {
		o.MaxDataOutputs = 0
		_, err := o.encoderConfig()
		require.ErrorIs(t, err, encoder.ErrInvalidConfig)
	})
}
