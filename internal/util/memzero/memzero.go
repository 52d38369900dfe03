// Package memzero wipes key material that is no longer needed.
package memzero

import (
	"crypto/subtle"
	"runtime"
)

// Zero overwrites b with zeros. This is best-effort; the Go runtime may
// already have copied the contents elsewhere.
//
//go:noinline
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.XORBytes(b, b, b)
	runtime.KeepAlive(b)
}
