// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package txbuilder

import (
	"sort"

	"github.com/btcsuite/btcd/btcutil/psbt"
)

// InputIndexesByHelpingKey returns input indexes to sign grouped by helping key.
func InputIndexesByHelpingKey(p *psbt.Packet) (map[InputsHelpingKey][]int, error) {
	var result = make(map[InputsHelpingKey][]int, 2)
	for _, unknown := range p.Unknowns {
		if len(unknown.Key) != 1 {
			continue
		}

		key, err := InputsHelpingKeyFromBytes(unknown.Key)
		if err != nil {
			return nil, err
		}

		for _, val := range unknown.Value {
			result[key] = append(result[key], int(val))
		}
	}

	return result, nil
}

// InputsToSign returns sorted input indexes listed under any helping key.
func InputsToSign(p *psbt.Packet) ([]int, error) {
	byKey, err := InputIndexesByHelpingKey(p)
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(p.Inputs))
	for _, keyIndexes := range byKey {
		indexes = append(indexes, keyIndexes...)
	}
	sort.Ints(indexes)

	return indexes, nil
}
