package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"walletlink/internal/domain"
	"walletlink/internal/util/memzero"
)

// ErrDecrypt is returned when a box fails authentication.
var ErrDecrypt = errors.New("box: message authentication failed")

// SharedSecret computes the box key shared between secret and peer.
// Both sides arrive at the same key: SharedSecret(a, B) == SharedSecret(b, A).
func SharedSecret(secret domain.X25519Private, peer domain.X25519Public) (domain.SharedSecret, error) {
	// Precompute accepts low-order points; X25519 does not.
	dh, err := curve25519.X25519(secret.Slice(), peer.Slice())
	if err != nil {
		return domain.SharedSecret{}, fmt.Errorf("key agreement: %w", err)
	}
	memzero.Zero(dh)

	var out [32]byte
	sk := [32]byte(secret)
	pk := [32]byte(peer)
	box.Precompute(&out, &pk, &sk)
	memzero.Zero(sk[:])
	return domain.SharedSecret(out), nil
}

// NewNonce returns 24 random bytes.
func NewNonce() (n domain.Nonce, err error) {
	_, err = rand.Read(n[:])
	return n, err
}

// Seal encrypts and authenticates msg under key and nonce.
func Seal(msg []byte, nonce domain.Nonce, key domain.SharedSecret) []byte {
	n := [24]byte(nonce)
	k := [32]byte(key)
	return box.SealAfterPrecomputation(nil, msg, &n, &k)
}

// Open authenticates and decrypts a box produced by Seal.
func Open(ciphertext []byte, nonce domain.Nonce, key domain.SharedSecret) ([]byte, error) {
	n := [24]byte(nonce)
	k := [32]byte(key)
	pt, ok := box.OpenAfterPrecomputation(nil, ciphertext, &n, &k)
	if !ok {
		return nil, ErrDecrypt
	}
	return pt, nil
}
