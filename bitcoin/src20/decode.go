// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package src20

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"

	"stamps/bitcoin/src20/keystream"
	"stamps/bitcoin/utils"
	"stamps/internal/sequencereader"
)

// rawDocument accepts every known operation layout.
type rawDocument struct {
	P    string      `json:"p"`
	Op   string      `json:"op"`
	Tick string      `json:"tick"`
	Max  flexString  `json:"max"`
	Lim  flexString  `json:"lim"`
	Dec  *flexString `json:"dec"`
	Amt  flexString  `json:"amt"`
}

// flexString holds JSON string or number as string.
type flexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}

		*s = flexString(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}

	*s = flexString(number.String())
	return nil
}

// Unpack parses unmasked payload back into the operation.
func Unpack(payload []byte) (Operation, error) {
	if len(payload) < lengthPrefixSize {
		return nil, validationError(ErrMalformedPayload, "payload of %d bytes has no length", len(payload))
	}

	length := int(binary.BigEndian.Uint16(payload))
	if length > len(payload)-lengthPrefixSize {
		return nil, validationError(ErrMalformedPayload, "length %d above payload size %d", length, len(payload)-lengthPrefixSize)
	}

	data := payload[lengthPrefixSize : lengthPrefixSize+length]
	if !bytes.HasPrefix(data, []byte(ProtocolPrefix)) {
		return nil, validationError(ErrMalformedPayload, "no %q prefix", ProtocolPrefix)
	}

	var document rawDocument
	if err := json.Unmarshal(data[len(ProtocolPrefix):], &document); err != nil {
		return nil, validationError(ErrMalformedPayload, "%v", err)
	}

	if !strings.EqualFold(document.P, Protocol) {
		return nil, validationError(ErrMalformedPayload, "protocol %q", document.P)
	}

	var op Operation
	switch OpType(strings.ToUpper(document.Op)) {
	case OpDeploy:
		decimals := uint64(MaxDecimals)
		if document.Dec != nil {
			var err error
			decimals, err = strconv.ParseUint(string(*document.Dec), 10, 8)
			if err != nil {
				return nil, validationError(ErrMalformedPayload, "decimals %q", *document.Dec)
			}
		}

		op = Deploy{Tick: document.Tick, Max: string(document.Max), Lim: string(document.Lim), Dec: uint8(decimals)}
	case OpMint:
		op = Mint{Tick: document.Tick, Amount: string(document.Amt)}
	case OpTransfer:
		op = Transfer{Tick: document.Tick, Amount: string(document.Amt)}
	default:
		return nil, validationError(ErrUnknownOperation, "%q", document.Op)
	}

	if err := op.Validate(); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}

	return op, nil
}

// Decode extracts operation from the transaction data outputs.
// Payload is unmasked with the keystream seeded by the first input txid.
func Decode(tx *wire.MsgTx) (Operation, error) {
	if tx == nil || len(tx.TxIn) == 0 {
		return nil, validationError(ErrMalformedPayload, "transaction has no inputs")
	}

	outputs := sequencereader.New(tx.TxOut)
	masked := make([]byte, 0, outputs.Len()*ChunkSize)
	for outputs.HasNext() {
		output, _ := outputs.Next()
		if !utils.IsBareMultiSigScript(output.PkScript) {
			continue
		}

		keys, err := utils.ParseBareMultiSigScript(output.PkScript)
		if err != nil {
			return nil, validationError(ErrMalformedPayload, "output %d: %v", outputs.Position()-1, err)
		}

		for _, key := range keys[:2] {
			segment, err := utils.DataSegment(key)
			if err != nil {
				return nil, validationError(ErrMalformedPayload, "output %d: %v", outputs.Position()-1, err)
			}

			masked = append(masked, segment...)
		}
	}

	if len(masked) == 0 {
		return nil, validationError(ErrMalformedPayload, "transaction has no data outputs")
	}

	seed := keystream.SeedFromHash(&tx.TxIn[0].PreviousOutPoint.Hash)
	payload, err := keystream.Mask(seed, masked)
	if err != nil {
		return nil, err
	}

	return Unpack(payload)
}

// DecodePSBT extracts operation from hex or base64 encoded PSBT.
func DecodePSBT(encoded string) (Operation, error) {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		raw, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, validationError(ErrMalformedPayload, "psbt is neither hex nor base64")
		}
	}

	packet, err := psbt.NewFromRawBytes(bytes.NewReader(raw), false)
	if err != nil {
		return nil, validationError(ErrMalformedPayload, "%v", err)
	}

	return Decode(packet.UnsignedTx)
}
