// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package src20_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"stamps/bitcoin"
	"stamps/bitcoin/src20"
)

// tokenStates implements mint and deploy status providers over static data.
type tokenStates struct {
	tokens map[string]*src20.MintProgress
	err    error
}

func (s tokenStates) MintProgress(_ context.Context, tick string) (*src20.MintProgress, error) {
	if s.err != nil {
		return nil, s.err
	}

	progress, ok := s.tokens[tick]
	if !ok {
		return nil, src20.ErrTokenNotFound
	}

	return progress, nil
}

func (s tokenStates) IsDeployed(_ context.Context, tick string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}

	_, ok := s.tokens[tick]
	return ok, nil
}

func TestCheckRules(t *testing.T) {
	ctx := context.Background()
	states := tokenStates{tokens: map[string]*src20.MintProgress{
		"KEVIN": {MaxSupply: "21000000", TotalMinted: "20999500", LimitPerMint: "1000", Decimals: 18},
		"WHOLE": {MaxSupply: "100", TotalMinted: "0", LimitPerMint: "10", Decimals: 0},
		"DONE":  {MaxSupply: "100", TotalMinted: "100", LimitPerMint: "10", Decimals: 0},
	}}

	tests := []struct {
		op  src20.Operation
		err error
	}{
		{src20.Deploy{Tick: "NEW", Max: "100", Lim: "1", Dec: 0}, nil},
		{src20.Deploy{Tick: "KEVIN", Max: "100", Lim: "1", Dec: 0}, src20.ErrAlreadyDeployed},
		{src20.Mint{Tick: "KEVIN", Amount: "500"}, nil},
		{src20.Mint{Tick: "KEVIN", Amount: "500.000000000000000001"}, src20.ErrMintedOut},
		{src20.Mint{Tick: "KEVIN", Amount: "1001"}, src20.ErrMintLimitExceeded},
		{src20.Mint{Tick: "NOPE", Amount: "1"}, src20.ErrNotDeployed},
		{src20.Mint{Tick: "WHOLE", Amount: "10"}, nil},
		{src20.Mint{Tick: "WHOLE", Amount: "1.5"}, src20.ErrInvalidAmount},
		{src20.Mint{Tick: "DONE", Amount: "11"}, src20.ErrMintedOut},
		{src20.Transfer{Tick: "KEVIN", Amount: "1"}, nil},
		{src20.Transfer{Tick: "NOPE", Amount: "1"}, src20.ErrNotDeployed},
	}
	for _, test := range tests {
		err := src20.CheckRules(ctx, test.op, states, states)
		if test.err == nil {
			require.NoError(t, err, "%+v", test.op)
			continue
		}

		require.ErrorIs(t, err, test.err, "%+v", test.op)
		if !errors.Is(test.err, src20.ErrInvalidAmount) {
			require.ErrorIs(t, err, bitcoin.ErrBusinessRule, "%+v", test.op)
		}
	}

	t.Run("provider failure", func(t *testing.T) {
		failing := tokenStates{err: errors.New("indexer unavailable")}
		ops := []src20.Operation{
			src20.Deploy{Tick: "NEW", Max: "100", Lim: "1"},
			src20.Mint{Tick: "KEVIN", Amount: "1"},
			src20.Transfer{Tick: "KEVIN", Amount: "1"},
		}
		for _, op := range ops {
			err := src20.CheckRules(ctx, op, failing, failing)
			require.ErrorIs(t, err, bitcoin.ErrChainData, "%+v", op)
			require.ErrorIs(t, err, failing.err, "%+v", op)
		}
	})

	t.Run("corrupted state", func(t *testing.T) {
		corrupted := tokenStates{tokens: map[string]*src20.MintProgress{
			"BAD": {MaxSupply: "lots", TotalMinted: "0", LimitPerMint: "1", Decimals: 0},
		}}
		err := src20.CheckRules(ctx, src20.Mint{Tick: "BAD", Amount: "1"}, corrupted, corrupted)
		require.ErrorIs(t, err, bitcoin.ErrChainData)
	})
}
