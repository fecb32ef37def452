// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package txbuilder

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"stamps/bitcoin"
)

var (
	// ErrPSBTInputBuilder defines errors class for psbt input preparation.
	ErrPSBTInputBuilder = errors.New("prepare psbt input")
	// ErrPreviousOutputMismatch defines previous output whose value or script differs from the utxo.
	ErrPreviousOutputMismatch = errors.New("previous output does not match utxo")
)

const (
	// P2PK defines P2PK (public key) script type.
	P2PK = "P2PK"
	// P2PKH defines P2PKH (public key hash) script type.
	P2PKH = "P2PKH"
	// P2SH defines P2SH (script hash) script type.
	P2SH = "P2SH"
	// P2WPKH defines P2WPKH (witness public key hash) script type.
	P2WPKH = "P2WPKH"
	// P2WSH defines P2WSH (witness script hash) script type.
	P2WSH = "P2WSH"
	// P2TR defines P2TR (taproot) script type.
	P2TR = "P2TR"
	// Unknown defines non standard script type, spent as legacy.
	Unknown = "UNKNOWN"
)

// ScriptType returns script type name of the locking script.
func ScriptType(script []byte) string {
	switch txscript.GetScriptClass(script) {
	case txscript.WitnessV1TaprootTy:
		return P2TR
	case txscript.WitnessV0PubKeyHashTy:
		return P2WPKH
	case txscript.WitnessV0ScriptHashTy:
		return P2WSH
	case txscript.PubKeyHashTy:
		return P2PKH
	case txscript.PubKeyTy:
		return P2PK
	case txscript.ScriptHashTy:
		return P2SH
	default:
		return Unknown
	}
}

// PSBTInputBuilder is a helping tool to prepare psbt input based on spent script type.
// Witness inputs get witness utxo, legacy inputs get full previous transaction,
// P2SH inputs get both since they may wrap segwit program.
type PSBTInputBuilder struct {
	chain bitcoin.ChainDataProvider
}

// NewPSBTInputBuilder is a constructor for PSBTInputBuilder.
func NewPSBTInputBuilder(chain bitcoin.ChainDataProvider) *PSBTInputBuilder {
	return &PSBTInputBuilder{chain: chain}
}

// PrepareInput updates input with data needed to sign utxo. Returns script type of the utxo.
func (pib *PSBTInputBuilder) PrepareInput(ctx context.Context, input *psbt.PInput, utxo bitcoin.UTXO, outpoint wire.OutPoint) (scriptType string, err error) {
	defer func(err *error) {
		if err != nil && *err != nil {
			*err = errors.Join(ErrPSBTInputBuilder, *err)
		}
	}(&err)

	var details *bitcoin.TransactionDetails
	script := utxo.Script
	if len(script) == 0 {
		details, err = pib.details(ctx, outpoint)
		if err != nil {
			return "", err
		}

		if int(outpoint.Index) >= len(details.Outputs) {
			return "", errors.Join(bitcoin.ErrChainData, fmt.Errorf("output %s not found", outpoint))
		}

		output := details.Outputs[outpoint.Index]
		if output.Value != utxo.Amount {
			return "", errors.Join(bitcoin.ErrChainData, fmt.Errorf("%w: output %s value %d, utxo amount %d",
				ErrPreviousOutputMismatch, outpoint, int64(output.Value), int64(utxo.Amount)))
		}

		script = output.Script
	}

	scriptType = ScriptType(script)
	switch scriptType {
	case P2WPKH, P2WSH, P2TR:
		input.WitnessUtxo = wire.NewTxOut(int64(utxo.Amount), script)
	case P2SH:
		input.WitnessUtxo = wire.NewTxOut(int64(utxo.Amount), script)
		input.NonWitnessUtxo, err = pib.previousTx(ctx, details, outpoint, wire.NewTxOut(int64(utxo.Amount), script))
	default:
		input.NonWitnessUtxo, err = pib.previousTx(ctx, details, outpoint, wire.NewTxOut(int64(utxo.Amount), script))
	}
	if err != nil {
		return "", err
	}

	input.SighashType = signHashType

	return scriptType, nil
}

// details fetches previous transaction details.
func (pib *PSBTInputBuilder) details(ctx context.Context, outpoint wire.OutPoint) (*bitcoin.TransactionDetails, error) {
	details, err := pib.chain.TransactionDetails(ctx, outpoint.Hash.String())
	if err != nil {
		return nil, errors.Join(bitcoin.ErrChainData, err)
	}

	if details == nil {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("transaction %s not found", outpoint.Hash))
	}

	return details, nil
}

// previousTx returns previous transaction and checks that it is the one spent by outpoint
// and that its output pays expected value to expected script.
func (pib *PSBTInputBuilder) previousTx(ctx context.Context, details *bitcoin.TransactionDetails, outpoint wire.OutPoint, expected *wire.TxOut) (_ *wire.MsgTx, err error) {
	if details == nil {
		details, err = pib.details(ctx, outpoint)
		if err != nil {
			return nil, err
		}
	}

	if len(details.Raw) == 0 {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("no raw transaction %s", outpoint.Hash))
	}

	tx := new(wire.MsgTx)
	if err = tx.Deserialize(bytes.NewReader(details.Raw)); err != nil {
		return nil, errors.Join(bitcoin.ErrChainData, err)
	}

	if hash := tx.TxHash(); !hash.IsEqual(&outpoint.Hash) {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("raw transaction hash %s does not match %s", hash, outpoint.Hash))
	}

	if int(outpoint.Index) >= len(tx.TxOut) {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("output %s not found", outpoint))
	}

	output := tx.TxOut[outpoint.Index]
	if output.Value != expected.Value || !bytes.Equal(output.PkScript, expected.PkScript) {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("%w: output %s pays %d to %x, utxo %d to %x",
			ErrPreviousOutputMismatch, outpoint, output.Value, output.PkScript, expected.Value, expected.PkScript))
	}

	return tx, nil
}

// InputsHelpingKeyFor returns InputsHelpingKey for wallet input indexes distinguishing.
func InputsHelpingKeyFor(scriptType string) InputsHelpingKey {
	if scriptType == P2TR {
		return TaprootInputsHelpingKey
	}

	return PaymentInputsHelpingKey
}
