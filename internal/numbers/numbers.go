// Copyright (C) 2022 Creditor Corp. Group.
// See LICENSE for copying information.

package numbers

import (
	"errors"
	"math"
	"math/big"
	"regexp"
	"strings"
)

// Zero defines 0 number.
const Zero = 0

// ErrInvalidDecimal defines that string is not a non-negative decimal number.
var ErrInvalidDecimal = errors.New("invalid decimal number")

// ErrTooManyFractionDigits defines that decimal has more fractional digits than allowed.
var ErrTooManyFractionDigits = errors.New("too many fractional digits")

// MaxUInt64Value defines maximum value of uint64 type as rational.
var MaxUInt64Value = new(big.Rat).SetUint64(math.MaxUint64)

// decimalPattern accepts plain non-negative decimals without sign and exponent, e.g. "10", "0.5".
var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseDecimal parses non-negative decimal string with at most maxFractionDigits after the dot.
func ParseDecimal(s string, maxFractionDigits int) (*big.Rat, error) {
	if !decimalPattern.MatchString(s) {
		return nil, ErrInvalidDecimal
	}

	if dot := strings.IndexByte(s, '.'); dot != -1 && len(s)-dot-1 > maxFractionDigits {
		return nil, ErrTooManyFractionDigits
	}

	value, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, ErrInvalidDecimal
	}

	return value, nil
}

// FractionDigits returns count of digits after the dot in decimal string.
func FractionDigits(s string) int {
	dot := strings.IndexByte(s, '.')
	if dot == -1 {
		return 0
	}

	return len(s) - dot - 1
}

// IsPositive returns true if the number is grater than zero.
func IsPositive(num *big.Rat) bool {
	return num.Sign() > Zero
}

// IsGreater returns true is a > b.
func IsGreater(a, b *big.Rat) bool {
	return a.Cmp(b) > Zero
}

// IsLess returns true is a < b.
func IsLess(a, b *big.Rat) bool {
	return a.Cmp(b) < Zero
}

// Sum returns a + b as a new number.
func Sum(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Add(a, b)
}
