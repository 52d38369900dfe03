package domain

import "fmt"

// ------------- X25519 -------------

// X25519Private is a Curve25519 secret key.
type X25519Private [32]byte

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

func (k X25519Private) Slice() []byte { return k[:] }
func (k X25519Public) Slice() []byte  { return k[:] }

// X25519PrivateFromBytes copies b into an X25519Private.
func X25519PrivateFromBytes(b []byte) (X25519Private, error) {
	var out X25519Private
	if len(b) != len(out) {
		return out, fmt.Errorf("X25519 private: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// X25519PublicFromBytes copies b into an X25519Public.
func X25519PublicFromBytes(b []byte) (X25519Public, error) {
	var out X25519Public
	if len(b) != len(out) {
		return out, fmt.Errorf("X25519 public: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// KeyPair is the local key-agreement identity presented to the wallet.
// It is generated once and reused until the store is wiped.
type KeyPair struct {
	Secret X25519Private
	Public X25519Public
}

// ------------- Symmetric -------------

// SharedSecret is the 32-byte box key derived from our secret key and the
// wallet's public key.
type SharedSecret [32]byte

func (s SharedSecret) Slice() []byte { return s[:] }

// SharedSecretFromBytes copies b into a SharedSecret.
func SharedSecretFromBytes(b []byte) (SharedSecret, error) {
	var out SharedSecret
	if len(b) != len(out) {
		return out, fmt.Errorf("shared secret: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Nonce is the 24-byte per-message nonce of the box cipher.
type Nonce [24]byte

func (n Nonce) Slice() []byte { return n[:] }

// Credentials is what a submission needs: our public key (so the wallet can
// find the matching secret) and the shared secret.
type Credentials struct {
	PublicKey X25519Public
	Secret    SharedSecret
}
