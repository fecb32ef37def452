// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package sequencereader

import (
	"errors"
)

// ErrSequenceEnded defines that there are no more elements to read.
var ErrSequenceEnded = errors.New("the sequence is ended")

// SequenceReader defines the simplest forward reader for sequences.
type SequenceReader[T any] struct {
	s   []T
	idx int
}

// New is a constructor for SequenceReader.
func New[T any](seq []T) *SequenceReader[T] {
	return &SequenceReader[T]{s: seq}
}

// HasNext returns true is sequence is not ended.
func (sr *SequenceReader[T]) HasNext() bool {
	return sr.idx < len(sr.s)
}

// Next returns next element of the sequence and moves forward.
func (sr *SequenceReader[T]) Next() (T, error) {
	value, err := sr.Peek()
	if err != nil {
		return value, err
	}

	sr.idx++

	return value, nil
}

// Peek returns next element of the sequence without moving forward.
func (sr *SequenceReader[T]) Peek() (T, error) {
	if !sr.HasNext() {
		return *new(T), ErrSequenceEnded
	}

	return sr.s[sr.idx], nil
}

// Position returns index of the element which Next will return.
func (sr *SequenceReader[T]) Position() int {
	return sr.idx
}

// Len returns how many items are left.
func (sr *SequenceReader[T]) Len() int {
	return len(sr.s) - sr.idx
}
