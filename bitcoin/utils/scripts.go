// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// BareMultiSigScriptLen defines length of 1-of-3 bare multisig script with compressed keys.
const BareMultiSigScriptLen = 105

// ErrNotBareMultiSig defines script which is not 1-of-3 bare multisig with compressed keys.
var ErrNotBareMultiSig = errors.New("not a bare 1-of-3 multisig script")

// FillerPublicKey is the third key of data scripts.
var FillerPublicKey = bytes.Repeat([]byte{compressedEven}, btcec.PubKeyBytesLenCompressed)

// key offsets in the bare multisig script.
var bareMultiSigKeyOffsets = [3]int{2, 36, 70}

// NewBareMultiSigScript builds 1-of-3 bare multisig locking script.
// INFO: Script will have the next format: {OP_1 <keyA> <keyB> <filler> OP_3 OP_CHECKMULTISIG}.
// NOTE: Panics if keys are not 33 bytes each.
func NewBareMultiSigScript(keyA, keyB, filler []byte) ([]byte, error) {
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_1).
		AddData(keyA).
		AddData(keyB).
		AddData(filler).
		AddOp(txscript.OP_3).
		AddOp(txscript.OP_CHECKMULTISIG).
		Script()
	if err != nil {
		return nil, err
	}

	if len(script) != BareMultiSigScriptLen {
		panic(fmt.Sprintf("bare multisig script has %d bytes instead of %d", len(script), BareMultiSigScriptLen))
	}

	return script, nil
}

// MustBareMultiSigScript uses NewBareMultiSigScript, panics in case of error.
func MustBareMultiSigScript(keyA, keyB, filler []byte) []byte {
	script, err := NewBareMultiSigScript(keyA, keyB, filler)
	if err != nil {
		panic(err)
	}

	return script
}

// ParseBareMultiSigScript returns three public keys of 1-of-3 bare multisig script.
func ParseBareMultiSigScript(script []byte) (keys [3][]byte, _ error) {
	if len(script) != BareMultiSigScriptLen ||
		script[0] != txscript.OP_1 ||
		script[BareMultiSigScriptLen-2] != txscript.OP_3 ||
		script[BareMultiSigScriptLen-1] != txscript.OP_CHECKMULTISIG {
		return keys, ErrNotBareMultiSig
	}

	for i, offset := range bareMultiSigKeyOffsets {
		if script[offset-1] != txscript.OP_DATA_33 {
			return keys, ErrNotBareMultiSig
		}

		keys[i] = script[offset : offset+btcec.PubKeyBytesLenCompressed]
	}

	return keys, nil
}

// IsBareMultiSigScript returns true if script is 1-of-3 bare multisig with compressed keys.
func IsBareMultiSigScript(script []byte) bool {
	_, err := ParseBareMultiSigScript(script)
	return err == nil
}

// NewDataOutput encodes two data segments into public keys and returns bare multisig output carrying them.
func NewDataOutput(segmentA, segmentB []byte, value int64, rnd io.Reader) (*wire.TxOut, error) {
	keyA, err := NewDataPublicKey(segmentA, rnd)
	if err != nil {
		return nil, err
	}

	keyB, err := NewDataPublicKey(segmentB, rnd)
	if err != nil {
		return nil, err
	}

	script, err := NewBareMultiSigScript(keyA, keyB, FillerPublicKey)
	if err != nil {
		return nil, err
	}

	return wire.NewTxOut(value, script), nil
}
