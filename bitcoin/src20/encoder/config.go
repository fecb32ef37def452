// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package encoder

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"stamps/bitcoin/txbuilder"
)

const (
	// DefaultRecipientValue defines value of the output marking operation recipient.
	DefaultRecipientValue btcutil.Amount = 789
	// DefaultDataOutputValue defines value of every bare multisig data output.
	DefaultDataOutputValue btcutil.Amount = 810
	// DefaultMaxDataOutputs defines maximum count of data outputs in one transaction.
	DefaultMaxDataOutputs = 64
)

// ErrInvalidConfig defines inconsistent encoder configuration.
var ErrInvalidConfig = errors.New("invalid encoder config")

// Config defines encoder parameters.
type Config struct {
	Network         *chaincfg.Params
	RecipientValue  btcutil.Amount
	DataOutputValue btcutil.Amount
	MaxDataOutputs  int
	Sequence        uint32
}

// DefaultConfig returns mainnet config.
func DefaultConfig() Config {
	return Config{
		Network:         &chaincfg.MainNetParams,
		RecipientValue:  DefaultRecipientValue,
		DataOutputValue: DefaultDataOutputValue,
		MaxDataOutputs:  DefaultMaxDataOutputs,
		Sequence:        txbuilder.DefaultSequence,
	}
}

// Validate checks config consistency.
func (c Config) Validate() error {
	switch {
	case c.Network == nil:
		return fmt.Errorf("%w: network is not set", ErrInvalidConfig)
	case c.RecipientValue <= 0:
		return fmt.Errorf("%w: recipient value %d", ErrInvalidConfig, int64(c.RecipientValue))
	case c.DataOutputValue <= 0:
		return fmt.Errorf("%w: data output value %d", ErrInvalidConfig, int64(c.DataOutputValue))
	case c.MaxDataOutputs <= 0:
		return fmt.Errorf("%w: max data outputs %d", ErrInvalidConfig, c.MaxDataOutputs)
	}

	return nil
}
