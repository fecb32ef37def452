package reverse_test

import (
	"bytes"
	"testing"

	"stamps/internal/reverse"
)

func FuzzReverse(f *testing.F) {
	f.Add([]byte("some_data_here"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, orig []byte) {
		snapshot := bytes.Clone(orig)
		rev := reverse.Bytes(orig)
		doubleRev := reverse.Bytes(rev)

		if !bytes.Equal(orig, snapshot) {
			t.Errorf("Argument modified: %x, was %x", orig, snapshot)
		}
		if !bytes.Equal(orig, doubleRev) {
			t.Errorf("Before: %x, after: %x", orig, doubleRev)
		}
		if len(orig) > 0 && rev[0] != orig[len(orig)-1] {
			t.Errorf("First byte %x, expected %x", rev[0], orig[len(orig)-1])
		}
	})
}
