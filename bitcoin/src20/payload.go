// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package src20

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
)

const (
	// ChunkSize defines payload bytes carried by one multisig output.
	ChunkSize = 2 * SegmentSize
	// SegmentSize defines payload bytes carried by one data public key.
	SegmentSize = 31
	// ProtocolPrefix precedes JSON document in the payload.
	ProtocolPrefix = "stamp:"
	// MaxPayloadLength defines maximum length of prefix and JSON, limited by u16 length prefix.
	MaxPayloadLength = math.MaxUint16

	// lengthPrefixSize defines size of big-endian length prefix.
	lengthPrefixSize = 2
)

// deployDocument defines JSON layout of the deploy operation, fields order is part of the format.
type deployDocument struct {
	P    string `json:"p"`
	Op   OpType `json:"op"`
	Tick string `json:"tick"`
	Max  string `json:"max"`
	Lim  string `json:"lim"`
	Dec  uint8  `json:"dec,string"`
}

// amountDocument defines JSON layout of mint and transfer operations.
type amountDocument struct {
	P    string `json:"p"`
	Op   OpType `json:"op"`
	Tick string `json:"tick"`
	Amt  string `json:"amt"`
}

// Serialize validates operation and returns its payload:
// u16 big-endian length, "stamp:" prefix and JSON, zero padded to a multiple of ChunkSize.
func Serialize(op Operation) ([]byte, error) {
	if op == nil {
		return nil, validationError(ErrUnknownOperation, "nil operation")
	}

	if err := op.Validate(); err != nil {
		return nil, err
	}

	document, err := marshalDocument(op.document())
	if err != nil {
		return nil, validationError(ErrMalformedPayload, "%v", err)
	}

	length := len(ProtocolPrefix) + len(document)
	if length > MaxPayloadLength {
		return nil, validationError(ErrPayloadTooLarge, "%d bytes above %d", length, MaxPayloadLength)
	}

	size := lengthPrefixSize + length
	if rem := size % ChunkSize; rem != 0 {
		size += ChunkSize - rem
	}

	payload := make([]byte, 0, size)
	payload = binary.BigEndian.AppendUint16(payload, uint16(length))
	payload = append(payload, ProtocolPrefix...)
	payload = append(payload, document...)

	return payload[:size], nil
}

// SerializeWithLimit serializes operation and checks that payload fits maxChunks multisig outputs.
func SerializeWithLimit(op Operation, maxChunks int) ([]byte, error) {
	payload, err := Serialize(op)
	if err != nil {
		return nil, err
	}

	if chunks := len(payload) / ChunkSize; chunks > maxChunks {
		return nil, validationError(ErrPayloadTooLarge, "%d data outputs above %d", chunks, maxChunks)
	}

	return payload, nil
}

// Chunk splits masked payload into ChunkSize chunks, each split into two SegmentSize halves.
func Chunk(masked []byte) ([][2][]byte, error) {
	if len(masked) == 0 || len(masked)%ChunkSize != 0 {
		return nil, validationError(ErrMalformedPayload, "length %d is not a multiple of %d", len(masked), ChunkSize)
	}

	chunks := make([][2][]byte, 0, len(masked)/ChunkSize)
	for offset := 0; offset < len(masked); offset += ChunkSize {
		chunks = append(chunks, [2][]byte{
			masked[offset : offset+SegmentSize],
			masked[offset+SegmentSize : offset+ChunkSize],
		})
	}

	return chunks, nil
}

// marshalDocument encodes document without HTML escaping and trailing new line.
func marshalDocument(document any) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(document); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
