package memzero

import "testing"

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 0xff}
	Zero(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, v)
		}
	}
	Zero(nil)
}
