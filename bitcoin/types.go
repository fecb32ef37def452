// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package bitcoin

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
)

// UTXO describes unspent transaction output data.
type UTXO struct {
	TxHash        string
	Index         uint32         // output index in transaction outputs.
	Amount        btcutil.Amount // in Satoshi.
	Script        []byte         // ScriptPubKey, may be empty if provider does not know it.
	Address       string         // output recipient address.
	Confirmations int64
}

// TxOutput describes single output of the previous transaction.
type TxOutput struct {
	Value      btcutil.Amount
	Script     []byte
	ScriptType string // provider specific script type name, informational only.
}

// TransactionDetails describes previous transaction data needed to spend its outputs.
type TransactionDetails struct {
	Outputs []TxOutput
	Raw     []byte // serialized transaction.
}

// ChainDataProvider provides read-only access to the blockchain data.
type ChainDataProvider interface {
	// Utxos returns unspent outputs locked to the address.
	Utxos(ctx context.Context, address string) ([]UTXO, error)
	// TransactionDetails returns outputs and raw bytes of the transaction.
	TransactionDetails(ctx context.Context, txID string) (*TransactionDetails, error)
}
