// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package src20_test

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stamps/bitcoin"
	"stamps/bitcoin/src20"
)

func TestSerialize(t *testing.T) {
	t.Run("documents", func(t *testing.T) {
		tests := []struct {
			op       src20.Operation
			document string
			size     int
		}{
			{
				src20.Mint{Tick: "KEVIN", Amount: "1000"},
				`{"p":"SRC-20","op":"MINT","tick":"KEVIN","amt":"1000"}`,
				62,
			},
			{
				src20.Transfer{Tick: "KEVIN", Amount: "1"},
				`{"p":"SRC-20","op":"TRANSFER","tick":"KEVIN","amt":"1"}`,
				124,
			},
			{
				src20.Deploy{Tick: "KEVIN", Max: "21000000", Lim: "1000", Dec: 18},
				`{"p":"SRC-20","op":"DEPLOY","tick":"KEVIN","max":"21000000","lim":"1000","dec":"18"}`,
				124,
			},
			{
				src20.Mint{Tick: "<&>", Amount: "1"},
				`{"p":"SRC-20","op":"MINT","tick":"<&>","amt":"1"}`,
				62,
			},
		}
		for _, test := range tests {
			payload, err := src20.Serialize(test.op)
			require.NoError(t, err)
			require.Len(t, payload, test.size)
			require.Zero(t, len(payload)%src20.ChunkSize)

			expected := src20.ProtocolPrefix + test.document
			require.EqualValues(t, len(expected), binary.BigEndian.Uint16(payload))
			require.Equal(t, expected, string(payload[2:2+len(expected)]))
			require.Equal(t, make([]byte, test.size-2-len(expected)), payload[2+len(expected):])
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		op := src20.Deploy{Tick: "🐸", Max: "1000", Lim: "10", Dec: 2}

		first, err := src20.Serialize(op)
		require.NoError(t, err)
		second, err := src20.Serialize(op)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("invalid operation", func(t *testing.T) {
		_, err := src20.Serialize(src20.Mint{Tick: "KEVIN", Amount: "0"})
		require.ErrorIs(t, err, src20.ErrInvalidAmount)

		_, err = src20.Serialize(nil)
		require.ErrorIs(t, err, src20.ErrUnknownOperation)
		require.ErrorIs(t, err, bitcoin.ErrValidation)
	})

	t.Run("length prefix limit", func(t *testing.T) {
		// leading zeros pad the amount without changing its value.
		base := len(src20.ProtocolPrefix + `{"p":"SRC-20","op":"MINT","tick":"KEVIN","amt":"1"}`)
		paddedMint := func(length int) src20.Mint {
			return src20.Mint{Tick: "KEVIN", Amount: strings.Repeat("0", length-base) + "1"}
		}

		tests := []struct {
			name   string
			length int
			err    error
		}{
			{name: "max length", length: src20.MaxPayloadLength},
			{name: "above max length", length: src20.MaxPayloadLength + 1, err: src20.ErrPayloadTooLarge},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				op := paddedMint(test.length)
				payload, err := src20.Serialize(op)
				if test.err != nil {
					require.ErrorIs(t, err, test.err)
					require.ErrorIs(t, err, bitcoin.ErrValidation)
					return
				}

				require.NoError(t, err)
				require.Len(t, payload, 65596)
				require.EqualValues(t, test.length, binary.BigEndian.Uint16(payload))

				decoded, err := src20.Unpack(payload)
				require.NoError(t, err)
				require.Equal(t, op, decoded)
			})
		}
	})

	t.Run("SerializeWithLimit", func(t *testing.T) {
		op := src20.Deploy{Tick: "KEVIN", Max: "21000000", Lim: "1000", Dec: 18}

		payload, err := src20.SerializeWithLimit(op, 2)
		require.NoError(t, err)
		require.Len(t, payload, 124)

		_, err = src20.SerializeWithLimit(op, 1)
		require.ErrorIs(t, err, src20.ErrPayloadTooLarge)
		require.ErrorIs(t, err, bitcoin.ErrValidation)
	})
}

func TestChunk(t *testing.T) {
	masked := make([]byte, 3*src20.ChunkSize)
	for i := range masked {
		masked[i] = byte(i)
	}

	chunks, err := src20.Chunk(masked)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	joined := make([]byte, 0, len(masked))
	for _, chunk := range chunks {
		require.Len(t, chunk[0], src20.SegmentSize)
		require.Len(t, chunk[1], src20.SegmentSize)
		joined = append(joined, chunk[0]...)
		joined = append(joined, chunk[1]...)
	}
	require.Equal(t, masked, joined)

	for _, size := range []int{0, 1, 61, 63, 125} {
		_, err = src20.Chunk(bytes.Repeat([]byte{1}, size))
		require.ErrorIs(t, err, src20.ErrMalformedPayload, size)
	}
}

func TestUnpack(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		ops := []src20.Operation{
			src20.Deploy{Tick: "KEVIN", Max: "21000000", Lim: "1000", Dec: 18},
			src20.Deploy{Tick: "🐸", Max: "100.5", Lim: "0.5", Dec: 1},
			src20.Mint{Tick: "KEVIN", Amount: "1000"},
			src20.Transfer{Tick: "stamp", Amount: "0.25"},
		}
		for _, op := range ops {
			payload, err := src20.Serialize(op)
			require.NoError(t, err)

			decoded, err := src20.Unpack(payload)
			require.NoError(t, err)
			require.Equal(t, op, decoded)
		}
	})

	t.Run("lenient documents", func(t *testing.T) {
		tests := []struct {
			document string
			expected src20.Operation
		}{
			{`{"p":"src-20","op":"mint","tick":"KEVIN","amt":1000}`, src20.Mint{Tick: "KEVIN", Amount: "1000"}},
			{`{"p":"SRC-20","op":"deploy","tick":"KEVIN","max":"100","lim":"10"}`, src20.Deploy{Tick: "KEVIN", Max: "100", Lim: "10", Dec: 18}},
			{`{"p":"SRC-20","op":"DEPLOY","tick":"KEVIN","max":100,"lim":10,"dec":8}`, src20.Deploy{Tick: "KEVIN", Max: "100", Lim: "10", Dec: 8}},
		}
		for _, test := range tests {
			op, err := src20.Unpack(rawPayload(src20.ProtocolPrefix + test.document))
			require.NoError(t, err, test.document)
			require.Equal(t, test.expected, op, test.document)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		tests := []struct {
			payload []byte
			err     error
		}{
			{nil, src20.ErrMalformedPayload},
			{[]byte{0xff, 0xff, 's'}, src20.ErrMalformedPayload},
			{rawPayload(`{"p":"SRC-20","op":"MINT","tick":"KEVIN","amt":"1"}`), src20.ErrMalformedPayload},
			{rawPayload(src20.ProtocolPrefix + `{"p":"SRC-20"`), src20.ErrMalformedPayload},
			{rawPayload(src20.ProtocolPrefix + `{"p":"SRC-721","op":"MINT","tick":"KEVIN","amt":"1"}`), src20.ErrMalformedPayload},
			{rawPayload(src20.ProtocolPrefix + `{"p":"SRC-20","op":"BURN","tick":"KEVIN","amt":"1"}`), src20.ErrUnknownOperation},
			{rawPayload(src20.ProtocolPrefix + `{"p":"SRC-20","op":"MINT","tick":"KEVIN","amt":"0"}`), src20.ErrInvalidAmount},
			{rawPayload(src20.ProtocolPrefix + `{"p":"SRC-20","op":"DEPLOY","tick":"KEVIN","max":"1","lim":"1","dec":"x"}`), src20.ErrMalformedPayload},
		}
		for _, test := range tests {
			_, err := src20.Unpack(test.payload)
			require.ErrorIs(t, err, test.err, string(test.payload))
			require.ErrorIs(t, err, bitcoin.ErrValidation, string(test.payload))
		}
	})
}

// rawPayload prepends length and pads data the same way Serialize does.
func rawPayload(data string) []byte {
	payload := binary.BigEndian.AppendUint16(nil, uint16(len(data)))
	payload = append(payload, data...)
	if rem := len(payload) % src20.ChunkSize; rem != 0 {
		payload = append(payload, make([]byte, src20.ChunkSize-rem)...)
	}

	return payload
}
