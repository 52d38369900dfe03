package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/curve25519"

	"walletlink/internal/domain"
)

// GenerateKeyPair returns a fresh Curve25519 key pair.
// The secret key is clamped per RFC 7748.
func GenerateKeyPair() (kp domain.KeyPair, err error) {
	if _, err = rand.Read(kp.Secret[:]); err != nil {
		return
	}
	clamp(&kp.Secret)
	kp.Public, err = PublicKey(kp.Secret)
	return
}

// PublicKey derives the public key for secret.
func PublicKey(secret domain.X25519Private) (pub domain.X25519Public, err error) {
	pb, err := curve25519.X25519(secret.Slice(), curve25519.Basepoint)
	if err != nil {
		return pub, err
	}
	copy(pub[:], pb)
	return pub, nil
}

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub domain.X25519Public) string {
	sum := sha256.Sum256(pub[:])
	return hex.EncodeToString(sum[:10])
}

func clamp(k *domain.X25519Private) {
	kb := k[:]
	kb[0] &= 248
	kb[31] &= 127
	kb[31] |= 64
}
