// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package keystream masks SRC-20 payloads with the RC4 keystream keyed by
// the funding transaction id. Masking only normalizes the byte layout of
// the data keys, the seed is public and the result is not encrypted.
package keystream

import (
	"crypto/rc4"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"stamps/bitcoin"
	"stamps/internal/reverse"
)

// ErrInvalidSeed defines seed of unsupported length or malformed transaction id.
var ErrInvalidSeed = errors.New("invalid keystream seed")

// Mask returns data XOR-ed with the keystream derived from seed.
// Mask is self-inverse: Mask(seed, Mask(seed, data)) == data.
func Mask(seed, data []byte) ([]byte, error) {
	cipher, err := rc4.NewCipher(seed)
	if err != nil {
		return nil, errors.Join(bitcoin.ErrValidation, ErrInvalidSeed, err)
	}

	masked := make([]byte, len(data))
	cipher.XORKeyStream(masked, data)

	return masked, nil
}

// SeedFromTxID returns transaction id bytes in the order they are displayed, i.e. hex decoded txid.
func SeedFromTxID(txID string) ([]byte, error) {
	if len(txID) != chainhash.MaxHashStringSize {
		return nil, errors.Join(bitcoin.ErrValidation, fmt.Errorf("%w: txid %q", ErrInvalidSeed, txID))
	}

	hash, err := chainhash.NewHashFromStr(txID)
	if err != nil {
		return nil, errors.Join(bitcoin.ErrValidation, ErrInvalidSeed, err)
	}

	return SeedFromHash(hash), nil
}

// SeedFromHash returns display ordered bytes of the in-memory (little-endian) transaction hash.
func SeedFromHash(hash *chainhash.Hash) []byte {
	return reverse.Bytes(hash[:])
}
