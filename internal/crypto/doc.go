// Package crypto exposes the minimal primitives used by walletlink.
//
// Contents
//
//   - X25519 key pair generation and public-key derivation (GenerateKeyPair,
//     PublicKey)
//   - Key agreement producing a box shared key (SharedSecret)
//   - XSalsa20-Poly1305 sealing with a precomputed key and a random 24-byte
//     nonce (NewNonce, Seal, Open)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// The box construction matches NaCl's crypto_box_beforenm/afternm so the
// wallet, which speaks tweetnacl, can open what we seal and vice versa.
// All functions return fixed-size array types defined in internal/domain.
package crypto
