// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package txbuilder_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"

	"stamps/bitcoin"
)

var errTxNotFound = errors.New("transaction not found")

// chainStub serves previous transactions from memory.
type chainStub struct {
	txs map[string]*bitcoin.TransactionDetails
	err error
}

func (c chainStub) Utxos(context.Context, string) ([]bitcoin.UTXO, error) {
	return nil, c.err
}

func (c chainStub) TransactionDetails(_ context.Context, txID string) (*bitcoin.TransactionDetails, error) {
	if c.err != nil {
		return nil, c.err
	}

	details, ok := c.txs[txID]
	if !ok {
		return nil, errTxNotFound
	}

	return details, nil
}

// testScripts returns scripts of P2WPKH, P2PKH and P2TR testnet addresses of deterministic key.
func testScripts(t *testing.T, seed byte) (p2wpkh, p2pkh, p2tr []byte) {
	privateKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
	pubKey := privateKey.PubKey()
	params := &chaincfg.TestNet3Params

	witnessAddress, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pubKey.SerializeCompressed()), params)
	require.NoError(t, err)
	legacyAddress, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pubKey.SerializeCompressed()), params)
	require.NoError(t, err)
	taprootAddress, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(txscript.ComputeTaprootKeyNoScript(pubKey)), params)
	require.NoError(t, err)

	for _, address := range []btcutil.Address{witnessAddress, legacyAddress, taprootAddress} {
		script, err := txscript.PayToAddrScript(address)
		require.NoError(t, err)

		switch address.(type) {
		case *btcutil.AddressWitnessPubKeyHash:
			p2wpkh = script
		case *btcutil.AddressPubKeyHash:
			p2pkh = script
		case *btcutil.AddressTaproot:
			p2tr = script
		}
	}

	return p2wpkh, p2pkh, p2tr
}

// scriptHashScript returns P2SH script wrapping redeem script.
func scriptHashScript(t *testing.T, redeemScript []byte) []byte {
	address, err := btcutil.NewAddressScriptHash(redeemScript, &chaincfg.TestNet3Params)
	require.NoError(t, err)

	script, err := txscript.PayToAddrScript(address)
	require.NoError(t, err)

	return script
}
