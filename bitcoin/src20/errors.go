// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package src20

import (
	"errors"
	"fmt"

	"stamps/bitcoin"
)

var (
	// ErrInvalidTick defines that tick has wrong length or forbidden characters.
	ErrInvalidTick = errors.New("invalid tick")
	// ErrInvalidAmount defines that amount is not a positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidDeploy defines inconsistent deploy parameters.
	ErrInvalidDeploy = errors.New("invalid deploy parameters")
	// ErrUnknownOperation defines operation out of Deploy, Mint and Transfer.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrPayloadTooLarge defines that serialized operation does not fit protocol limits.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrMalformedPayload defines payload that can not be parsed back into operation.
	ErrMalformedPayload = errors.New("payload is malformed")

	// ErrTokenNotFound is returned by status providers for unknown ticks.
	ErrTokenNotFound = errors.New("token not found")
	// ErrAlreadyDeployed defines deploy of the existing tick.
	ErrAlreadyDeployed = errors.New("tick already deployed")
	// ErrNotDeployed defines mint or transfer of the unknown tick.
	ErrNotDeployed = errors.New("tick not deployed")
	// ErrMintLimitExceeded defines mint amount above the per mint limit.
	ErrMintLimitExceeded = errors.New("mint limit exceeded")
	// ErrMintedOut defines mint which would exceed max supply.
	ErrMintedOut = errors.New("tick minted out")
)

// validationError joins cause with validation error class.
func validationError(cause error, format string, args ...any) error {
	return errors.Join(bitcoin.ErrValidation, fmt.Errorf("%w: %s", cause, fmt.Sprintf(format, args...)))
}

// businessRuleError joins cause with business rule error class.
func businessRuleError(cause error, tick string) error {
	return errors.Join(bitcoin.ErrBusinessRule, fmt.Errorf("%w: %q", cause, tick))
}
