// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package src20

import (
	"unicode"
	"unicode/utf8"

	"stamps/internal/numbers"
)

const (
	// Protocol defines protocol identifier written to every operation.
	Protocol = "SRC-20"

	// MaxTickLength defines maximum tick length in characters.
	MaxTickLength = 5
	// MaxDecimals defines maximum token decimals.
	MaxDecimals = 18
)

// OpType defines SRC-20 operation name.
type OpType string

const (
	// OpDeploy defines token creation.
	OpDeploy OpType = "DEPLOY"
	// OpMint defines token issuance to the recipient.
	OpMint OpType = "MINT"
	// OpTransfer defines token transfer to the recipient.
	OpTransfer OpType = "TRANSFER"
)

// Operation is one of Deploy, Mint or Transfer. The set is closed,
// use type switch over the concrete types to handle every operation.
type Operation interface {
	// Type returns operation name.
	Type() OpType
	// Ticker returns token tick the operation refers to.
	Ticker() string
	// Validate checks operation fields.
	Validate() error

	document() any
}

// Deploy creates a new token.
type Deploy struct {
	Tick string
	Max  string // max supply, decimal.
	Lim  string // limit per mint, decimal.
	Dec  uint8
}

// Mint issues Amount of tokens to the recipient.
type Mint struct {
	Tick   string
	Amount string
}

// Transfer moves Amount of tokens to the recipient.
type Transfer struct {
	Tick   string
	Amount string
}

var (
	_ Operation = Deploy{}
	_ Operation = Mint{}
	_ Operation = Transfer{}
)

// Type returns operation name.
func (Deploy) Type() OpType { return OpDeploy }

// Ticker returns token tick.
func (d Deploy) Ticker() string { return d.Tick }

// Validate checks deploy parameters.
func (d Deploy) Validate() error {
	if err := ValidateTick(d.Tick); err != nil {
		return err
	}

	if d.Dec > MaxDecimals {
		return validationError(ErrInvalidDeploy, "decimals %d above %d", d.Dec, MaxDecimals)
	}

	maxSupply, err := numbers.ParseDecimal(d.Max, int(d.Dec))
	if err != nil || !numbers.IsPositive(maxSupply) {
		return validationError(ErrInvalidDeploy, "max supply %q", d.Max)
	}

	if numbers.IsGreater(maxSupply, numbers.MaxUInt64Value) {
		return validationError(ErrInvalidDeploy, "max supply %q above uint64", d.Max)
	}

	limit, err := numbers.ParseDecimal(d.Lim, int(d.Dec))
	if err != nil || !numbers.IsPositive(limit) {
		return validationError(ErrInvalidDeploy, "limit per mint %q", d.Lim)
	}

	if numbers.IsGreater(limit, maxSupply) {
		return validationError(ErrInvalidDeploy, "limit per mint %q above max supply %q", d.Lim, d.Max)
	}

	return nil
}

func (d Deploy) document() any {
	return deployDocument{P: Protocol, Op: OpDeploy, Tick: d.Tick, Max: d.Max, Lim: d.Lim, Dec: d.Dec}
}

// Type returns operation name.
func (Mint) Type() OpType { return OpMint }

// Ticker returns token tick.
func (m Mint) Ticker() string { return m.Tick }

// Validate checks tick and amount.
func (m Mint) Validate() error {
	return validateTickAndAmount(m.Tick, m.Amount)
}

func (m Mint) document() any {
	return amountDocument{P: Protocol, Op: OpMint, Tick: m.Tick, Amt: m.Amount}
}

// Type returns operation name.
func (Transfer) Type() OpType { return OpTransfer }

// Ticker returns token tick.
func (t Transfer) Ticker() string { return t.Tick }

// Validate checks tick and amount.
func (t Transfer) Validate() error {
	return validateTickAndAmount(t.Tick, t.Amount)
}

func (t Transfer) document() any {
	return amountDocument{P: Protocol, Op: OpTransfer, Tick: t.Tick, Amt: t.Amount}
}

// ValidateTick checks that tick has 1 to MaxTickLength printable characters.
// Emoji and other non-latin symbols are allowed.
func ValidateTick(tick string) error {
	if !utf8.ValidString(tick) {
		return validationError(ErrInvalidTick, "%q is not utf-8", tick)
	}

	length := utf8.RuneCountInString(tick)
	if length == 0 || length > MaxTickLength {
		return validationError(ErrInvalidTick, "%q must have 1-%d characters", tick, MaxTickLength)
	}

	for _, r := range tick {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '"' || r == '\\' {
			return validationError(ErrInvalidTick, "%q contains forbidden character %q", tick, r)
		}
	}

	return nil
}

// validateTickAndAmount checks mint and transfer fields.
func validateTickAndAmount(tick, amount string) error {
	if err := ValidateTick(tick); err != nil {
		return err
	}

	value, err := numbers.ParseDecimal(amount, MaxDecimals)
	if err != nil || !numbers.IsPositive(value) {
		return validationError(ErrInvalidAmount, "%q", amount)
	}

	if numbers.IsGreater(value, numbers.MaxUInt64Value) {
		return validationError(ErrInvalidAmount, "%q above uint64", amount)
	}

	return nil
}
