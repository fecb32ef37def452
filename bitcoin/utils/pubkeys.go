// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package utils

import (
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"

	"stamps/bitcoin"
)

const (
	// MaxKeyEncodingAttempts defines how many parity and suffix draws are tried for one segment.
	MaxKeyEncodingAttempts = 256
	// DataSegmentSize defines data bytes carried by one public key.
	DataSegmentSize = 31

	// compressedEven and compressedOdd define compressed public key prefixes.
	compressedEven byte = 0x02
	compressedOdd  byte = 0x03
)

// ErrInvalidSegment defines data segment of wrong size.
var ErrInvalidSegment = errors.New("invalid data segment")

// NewDataPublicKey embeds 31 bytes segment into compressed public key: prefix || segment || suffix.
// Prefix parity and suffix byte are drawn from rnd until the key is a valid curve point.
// Every attempt reads exactly 2 bytes from rnd.
func NewDataPublicKey(segment []byte, rnd io.Reader) ([]byte, error) {
	if len(segment) != DataSegmentSize {
		return nil, errors.Join(bitcoin.ErrValidation, fmt.Errorf("%w: %d bytes", ErrInvalidSegment, len(segment)))
	}

	key := make([]byte, btcec.PubKeyBytesLenCompressed)
	copy(key[1:], segment)

	var draw [2]byte
	for attempt := 0; attempt < MaxKeyEncodingAttempts; attempt++ {
		if _, err := io.ReadFull(rnd, draw[:]); err != nil {
			return nil, err
		}

		key[0] = compressedEven
		if draw[0]&1 == 1 {
			key[0] = compressedOdd
		}
		key[len(key)-1] = draw[1]

		if _, err := btcec.ParsePubKey(key); err == nil {
			return key, nil
		}
	}

	return nil, fmt.Errorf("%w: segment %x", bitcoin.ErrKeyEncodingExhausted, segment)
}

// DataSegment returns data segment embedded into public key by NewDataPublicKey.
func DataSegment(key []byte) ([]byte, error) {
	if len(key) != btcec.PubKeyBytesLenCompressed {
		return nil, fmt.Errorf("%w: key of %d bytes", ErrInvalidSegment, len(key))
	}

	return key[1 : 1+DataSegmentSize], nil
}
