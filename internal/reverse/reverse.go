// Copyright (C) 2022 Creditor Corp. Group.
// See LICENSE for copying information.

package reverse

// Bytes returns reversed copy of value, the argument stays untouched.
func Bytes(value []byte) []byte {
	reversed := make([]byte, len(value))
	for i, b := range value {
		reversed[len(value)-1-i] = b
	}

	return reversed
}
