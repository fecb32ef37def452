// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package txbuilder

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"stamps/bitcoin"
)

const (
	// txVersion defines transaction version for this builder.
	txVersion int32 = 2
	// signHashType define signature hash type for input signing.
	signHashType = txscript.SigHashAll

	// DefaultSequence defines input sequence which signals replace-by-fee.
	DefaultSequence uint32 = wire.MaxTxInSequenceNum - 2
)

// ErrUnbalancedTemplate defines template whose input does not match outputs, fee and change.
var ErrUnbalancedTemplate = errors.New("unbalanced transaction template")

// TemplateParams describes data needed to build unsigned transaction template.
type TemplateParams struct {
	Plan         FeePlan
	Outputs      []*wire.TxOut // all outputs except change, in order.
	ChangeScript []byte
	Sequence     uint32
}

// Template describes unsigned transaction prepared for external signing.
type Template struct {
	Packet       *psbt.Packet
	Hex          string
	Base64       string
	Plan         FeePlan
	InputsToSign []int
}

// TxBuilder provides transaction building related logic.
type TxBuilder struct {
	inputs *PSBTInputBuilder
}

// NewTxBuilder is a constructor for TxBuilder.
func NewTxBuilder(chain bitcoin.ChainDataProvider) *TxBuilder {
	return &TxBuilder{
		inputs: NewPSBTInputBuilder(chain),
	}
}

// BuildTemplate constructs unsigned transaction spending plan input and wraps it into PSBT.
//
//	Tx struct
//	inputs:
//	┌─────────┬──────────────┬────────────────────────────────────────┐
//	│  index  │     type     │             description                │
//	├=========┼==============┼========================================┤
//	│       0 │ funding      │ the largest utxo of the change address │
//	└─────────┴──────────────┴────────────────────────────────────────┘
//
//	outputs:
//	┌─────────┬──────────────┬────────────────────────────────────────┐
//	│  index  │     type     │             description                │
//	├=========┼==============┼========================================┤
//	│       0 │ recipient    │ marks operation recipient.             │
//	├─────────┼──────────────┼────────────────────────────────────────┤
//	│   1 - n │ data         │ bare multisig outputs with payload.    │
//	├─────────┼──────────────┼────────────────────────────────────────┤
//	│     n+1 │ change       │ mandatory, rest of the input amount.   │
//	└─────────┴──────────────┴────────────────────────────────────────┘
func (b *TxBuilder) BuildTemplate(ctx context.Context, params TemplateParams) (*Template, error) {
	plan := params.Plan

	var total btcutil.Amount
	for _, output := range params.Outputs {
		total += btcutil.Amount(output.Value)
	}

	if total != plan.TotalOutputValue || plan.Input.Amount != total+plan.MinerFee+plan.Change || plan.Change < 0 {
		return nil, fmt.Errorf("%w: input %d, outputs %d, fee %d, change %d", ErrUnbalancedTemplate,
			int64(plan.Input.Amount), int64(total), int64(plan.MinerFee), int64(plan.Change))
	}

	utxoHash, err := chainhash.NewHashFromStr(plan.Input.TxHash)
	if err != nil {
		return nil, errors.Join(bitcoin.ErrChainData, fmt.Errorf("utxo hash %q: %w", plan.Input.TxHash, err))
	}

	outpoint := wire.NewOutPoint(utxoHash, plan.Input.Index)
	input := wire.NewTxIn(outpoint, nil, nil)
	input.Sequence = params.Sequence

	tx := wire.NewMsgTx(txVersion)
	tx.AddTxIn(input)
	for _, output := range params.Outputs {
		tx.AddTxOut(output)
	}
	tx.AddTxOut(wire.NewTxOut(int64(plan.Change), params.ChangeScript))

	p, err := psbt.NewFromUnsignedTx(tx)
	if err != nil {
		return nil, err
	}

	scriptType, err := b.inputs.PrepareInput(ctx, &p.Inputs[0], plan.Input, *outpoint)
	if err != nil {
		return nil, err
	}

	p.Unknowns = append(p.Unknowns, &psbt.Unknown{
		Key:   InputsHelpingKeyFor(scriptType).Bytes(),
		Value: []byte{0},
	})

	w := bytes.NewBuffer(nil)
	if err = p.Serialize(w); err != nil {
		return nil, err
	}

	encoded, err := p.B64Encode()
	if err != nil {
		return nil, err
	}

	inputsToSign, err := InputsToSign(p)
	if err != nil {
		return nil, err
	}

	return &Template{
		Packet:       p,
		Hex:          hex.EncodeToString(w.Bytes()),
		Base64:       encoded,
		Plan:         plan,
		InputsToSign: inputsToSign,
	}, nil
}
