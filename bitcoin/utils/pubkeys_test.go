// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package utils_test

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
	"testing/iotest"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"stamps/bitcoin"
	"stamps/bitcoin/utils"
)

func TestNewDataPublicKey(t *testing.T) {
	t.Run("valid keys", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(42))
		for i := 0; i < 200; i++ {
			segment := make([]byte, utils.DataSegmentSize)
			_, _ = rnd.Read(segment)

			key, err := utils.NewDataPublicKey(segment, rnd)
			require.NoError(t, err)
			require.Len(t, key, 33)
			require.Contains(t, []byte{0x02, 0x03}, key[0])
			require.Equal(t, segment, key[1:32])

			_, err = secp256k1.ParsePubKey(key)
			require.NoError(t, err)

			embedded, err := utils.DataSegment(key)
			require.NoError(t, err)
			require.Equal(t, segment, embedded)
		}
	})

	t.Run("deterministic for the same reader", func(t *testing.T) {
		segment := bytes.Repeat([]byte{0x11}, utils.DataSegmentSize)

		first, err := utils.NewDataPublicKey(segment, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		second, err := utils.NewDataPublicKey(segment, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("exhausted", func(t *testing.T) {
		// x coordinate is above field prime for every suffix.
		segment := bytes.Repeat([]byte{0xff}, utils.DataSegmentSize)
		rnd := bytes.NewReader(make([]byte, 2*utils.MaxKeyEncodingAttempts+10))

		_, err := utils.NewDataPublicKey(segment, rnd)
		require.ErrorIs(t, err, bitcoin.ErrKeyEncodingExhausted)
		require.Equal(t, 10, rnd.Len())
	})

	t.Run("reader failure", func(t *testing.T) {
		readerErr := errors.New("entropy unavailable")
		_, err := utils.NewDataPublicKey(make([]byte, utils.DataSegmentSize), iotest.ErrReader(readerErr))
		require.ErrorIs(t, err, readerErr)
	})

	t.Run("invalid segment", func(t *testing.T) {
		for _, size := range []int{0, 30, 32, 62} {
			_, err := utils.NewDataPublicKey(make([]byte, size), rand.New(rand.NewSource(1)))
			require.ErrorIs(t, err, utils.ErrInvalidSegment)
			require.ErrorIs(t, err, bitcoin.ErrValidation)
		}

		_, err := utils.DataSegment(make([]byte, 32))
		require.ErrorIs(t, err, utils.ErrInvalidSegment)
	})
}
