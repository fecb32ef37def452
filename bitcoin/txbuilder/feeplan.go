// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package txbuilder

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"stamps/bitcoin"
	"stamps/bitcoin/utils"
)

const (
	// headerSizeVBytes defines tx header size in vBytes: version, locktime, counts and segwit marker.
	headerSizeVBytes int64 = 11
	// defaultInputSizeVBytes defines input size for unknown script types, the legacy worst case.
	defaultInputSizeVBytes int64 = 148

	// DataOutputSizeVBytes defines size of bare multisig data output: value, script length and script.
	DataOutputSizeVBytes int64 = 8 + 1 + utils.BareMultiSigScriptLen
)

// inputSizesVBytes defines signed input sizes in vBytes by locking script class.
var inputSizesVBytes = map[txscript.ScriptClass]int64{
	txscript.WitnessV0PubKeyHashTy: 68,
	txscript.ScriptHashTy:          91,
	txscript.PubKeyHashTy:          148,
	txscript.WitnessV1TaprootTy:    58,
	txscript.WitnessV0ScriptHashTy: 104,
	txscript.PubKeyTy:              114,
}

// ErrInvalidFeeRate defines non positive or non finite fee rate.
var ErrInvalidFeeRate = errors.New("invalid fee rate")

// FeePlan describes funding input, miner fee and change of the transaction.
// Input.Amount is always equal to TotalOutputValue + MinerFee + Change.
type FeePlan struct {
	Input            bitcoin.UTXO
	TotalOutputValue btcutil.Amount
	EstimatedVSize   int64
	FeeRate          int64 // in satoshi per kilo virtual byte.
	MinerFee         btcutil.Amount
	Change           btcutil.Amount
}

// FeePlanParams describes data needed to select funding input and compute fee.
type FeePlanParams struct {
	UTXOs            []bitcoin.UTXO
	Outputs          []*wire.TxOut  // address outputs, precede data outputs.
	DataOutputs      int            // count of bare multisig data outputs.
	DataOutputValue  btcutil.Amount // value of every data output.
	ChangeScript     []byte
	FundingScript    []byte // locking script of utxos which have no script.
	SatoshiPerKVByte int64
}

// SatoshiPerKVByte converts fee rate in satoshi per virtual byte to satoshi per kilo virtual byte.
func SatoshiPerKVByte(satPerVByte float64) (int64, error) {
	if math.IsNaN(satPerVByte) || math.IsInf(satPerVByte, 0) || satPerVByte <= 0 {
		return 0, errors.Join(bitcoin.ErrValidation, fmt.Errorf("%w: %v sat/vB", ErrInvalidFeeRate, satPerVByte))
	}

	satPerKVB := math.Round(satPerVByte * 1000)
	if satPerKVB < 1 || satPerKVB > math.MaxInt32 {
		return 0, errors.Join(bitcoin.ErrValidation, fmt.Errorf("%w: %v sat/vB", ErrInvalidFeeRate, satPerVByte))
	}

	return int64(satPerKVB), nil
}

// PrepareFeePlan selects the largest utxo and checks it covers outputs and miner fee,
// the rest goes to change output which is always present.
func PrepareFeePlan(params FeePlanParams) (*FeePlan, error) {
	if params.SatoshiPerKVByte <= 0 {
		return nil, errors.Join(bitcoin.ErrValidation, fmt.Errorf("%w: %d sat/kvB", ErrInvalidFeeRate, params.SatoshiPerKVByte))
	}

	total := params.DataOutputValue * btcutil.Amount(params.DataOutputs)
	for _, output := range params.Outputs {
		total += btcutil.Amount(output.Value)
	}

	sorted := SortUTXOs(params.UTXOs)
	if len(sorted) == 0 {
		return nil, NewInsufficientError(total, 0)
	}

	input := sorted[0]
	inputScript := input.Script
	if len(inputScript) == 0 {
		inputScript = params.FundingScript
	}

	vsize := EstimateTxSize(inputScript, params.Outputs, params.ChangeScript) +
		int64(params.DataOutputs)*DataOutputSizeVBytes
	fee := MinerFee(vsize, params.SatoshiPerKVByte)

	input, err := SelectUTXO(sorted, total+fee)
	if err != nil {
		return nil, err
	}

	return &FeePlan{
		Input:            input,
		TotalOutputValue: total,
		EstimatedVSize:   vsize,
		FeeRate:          params.SatoshiPerKVByte,
		MinerFee:         fee,
		Change:           input.Amount - total - fee,
	}, nil
}

// EstimateTxSize returns size in vBytes of one input transaction with outputs and change output.
func EstimateTxSize(inputScript []byte, outputs []*wire.TxOut, changeScript []byte) int64 {
	size := headerSizeVBytes + InputSizeVBytes(inputScript)
	size += int64(wire.NewTxOut(0, changeScript).SerializeSize())
	for _, output := range outputs {
		size += int64(output.SerializeSize())
	}

	return size
}

// InputSizeVBytes returns signed input size in vBytes for the locking script.
func InputSizeVBytes(script []byte) int64 {
	if size, ok := inputSizesVBytes[txscript.GetScriptClass(script)]; ok {
		return size
	}

	return defaultInputSizeVBytes
}

// MinerFee returns fee for vsize at satoshi per kilo virtual byte rate, rounded up.
func MinerFee(vsize, satoshiPerKVByte int64) btcutil.Amount {
	return btcutil.Amount((vsize*satoshiPerKVByte + 999) / 1000)
}

// SortUTXOs returns copy of utxos sorted by amount desc, equal amounts keep their order.
func SortUTXOs(utxos []bitcoin.UTXO) []bitcoin.UTXO {
	sorted := make([]bitcoin.UTXO, len(utxos))
	copy(sorted, utxos)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	return sorted
}

// SelectUTXO returns the first utxo of sorted list if it is strictly greater than minAmount.
func SelectUTXO(sorted []bitcoin.UTXO, minAmount btcutil.Amount) (bitcoin.UTXO, error) {
	if len(sorted) == 0 {
		return bitcoin.UTXO{}, NewInsufficientError(minAmount, 0)
	}

	if sorted[0].Amount <= minAmount {
		return bitcoin.UTXO{}, NewInsufficientError(minAmount, sorted[0].Amount)
	}

	return sorted[0], nil
}
