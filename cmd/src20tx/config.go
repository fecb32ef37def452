// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package main

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"stamps/bitcoin/chaindata"
	"stamps/bitcoin/src20/encoder"
)

// options defines flags shared by every command.
type options struct {
	Network  string `long:"network" default:"mainnet" choice:"mainnet" choice:"testnet3" choice:"regtest" choice:"signet" description:"bitcoin network"`
	Snapshot string `long:"snapshot" env:"SRC20TX_SNAPSHOT" description:"JSON file with utxos, raw transactions and token states"`
	Debug    bool   `long:"debug" description:"log pipeline stages and node calls"`

	RecipientValue  int64 `long:"recipient-value" default:"789" description:"recipient output value in satoshi"`
	DataOutputValue int64 `long:"data-value" default:"810" description:"data output value in satoshi"`
	MaxDataOutputs  int   `long:"max-data-outputs" default:"64" description:"maximum data outputs per transaction"`

	Node chaindata.RPCConfig `group:"Node options"`
}

// requestOptions defines flags of the commands that build transactions.
type requestOptions struct {
	To      string  `long:"to" required:"true" description:"recipient address"`
	Change  string  `long:"change" required:"true" description:"funding and change address"`
	FeeRate float64 `long:"fee-rate" required:"true" description:"fee rate in sat/vB"`
	DryRun  bool    `long:"dry-run" description:"print fee plan without building transaction"`
}

var opts options

// networkParams returns chain parameters by network name.
func networkParams(name string) (*chaincfg.Params, error) {
	switch name {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	}

	return nil, fmt.Errorf("unknown network %q", name)
}

// encoderConfig builds encoder config from flags.
func (o options) encoderConfig() (encoder.Config, error) {
	params, err := networkParams(o.Network)
	if err != nil {
		return encoder.Config{}, err
	}

	config := encoder.DefaultConfig()
	config.Network = params
	config.RecipientValue = btcutil.Amount(o.RecipientValue)
	config.DataOutputValue = btcutil.Amount(o.DataOutputValue)
	config.MaxDataOutputs = o.MaxDataOutputs

	return config, config.Validate()
}
