// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package src20

import (
	"context"
	"errors"
	"fmt"

	"stamps/bitcoin"
	"stamps/internal/numbers"
)

// MintProgress describes deployed token supply state.
type MintProgress struct {
	MaxSupply    string `json:"max"`
	TotalMinted  string `json:"minted"`
	LimitPerMint string `json:"lim"`
	Decimals     uint8  `json:"dec"`
}

// MintStatusProvider provides token mint progress.
type MintStatusProvider interface {
	// MintProgress returns supply state of the tick, ErrTokenNotFound if tick is not deployed.
	MintProgress(ctx context.Context, tick string) (*MintProgress, error)
}

// DeployStatusProvider provides token deploy status.
type DeployStatusProvider interface {
	// IsDeployed returns true if tick is already deployed.
	IsDeployed(ctx context.Context, tick string) (bool, error)
}

// CheckRules checks operation against current token state.
func CheckRules(ctx context.Context, op Operation, mints MintStatusProvider, deploys DeployStatusProvider) error {
	switch op := op.(type) {
	case Deploy:
		deployed, err := deploys.IsDeployed(ctx, op.Tick)
		if err != nil {
			return chainDataError(err)
		}

		if deployed {
			return businessRuleError(ErrAlreadyDeployed, op.Tick)
		}
	case Mint:
		return checkMint(ctx, op, mints)
	case Transfer:
		deployed, err := deploys.IsDeployed(ctx, op.Tick)
		if err != nil {
			return chainDataError(err)
		}

		if !deployed {
			return businessRuleError(ErrNotDeployed, op.Tick)
		}
	default:
		return validationError(ErrUnknownOperation, "%T", op)
	}

	return nil
}

// checkMint checks mint amount against limit per mint and remaining supply.
func checkMint(ctx context.Context, op Mint, mints MintStatusProvider) error {
	progress, err := mints.MintProgress(ctx, op.Tick)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return businessRuleError(ErrNotDeployed, op.Tick)
		}

		return chainDataError(err)
	}

	if numbers.FractionDigits(op.Amount) > int(progress.Decimals) {
		return validationError(ErrInvalidAmount, "%q has more than %d decimals", op.Amount, progress.Decimals)
	}

	amount, err := numbers.ParseDecimal(op.Amount, MaxDecimals)
	if err != nil {
		return validationError(ErrInvalidAmount, "%q", op.Amount)
	}

	limit, err := numbers.ParseDecimal(progress.LimitPerMint, MaxDecimals)
	if err != nil {
		return chainDataError(fmt.Errorf("limit per mint %q: %w", progress.LimitPerMint, err))
	}

	maxSupply, err := numbers.ParseDecimal(progress.MaxSupply, MaxDecimals)
	if err != nil {
		return chainDataError(fmt.Errorf("max supply %q: %w", progress.MaxSupply, err))
	}

	minted, err := numbers.ParseDecimal(progress.TotalMinted, MaxDecimals)
	if err != nil {
		return chainDataError(fmt.Errorf("total minted %q: %w", progress.TotalMinted, err))
	}

	if !numbers.IsLess(minted, maxSupply) {
		return businessRuleError(ErrMintedOut, op.Tick)
	}

	if numbers.IsGreater(amount, limit) {
		return businessRuleError(ErrMintLimitExceeded, op.Tick)
	}

	if numbers.IsGreater(numbers.Sum(minted, amount), maxSupply) {
		return businessRuleError(ErrMintedOut, op.Tick)
	}

	return nil
}

// chainDataError joins cause with chain data error class.
func chainDataError(cause error) error {
	return errors.Join(bitcoin.ErrChainData, cause)
}
