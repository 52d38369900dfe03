package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"walletlink/internal/util/memzero"
)

// keyFileVersion is written into every sealed key file.
const keyFileVersion = 1

// maxScryptN caps the work factor accepted from a key file on disk.
const maxScryptN = 1 << 20

// ErrWrongPassphrase is returned by a sealed FileKV whose key file does not
// open with the configured passphrase, or whose contents were altered.
var ErrWrongPassphrase = errors.New("key file: wrong passphrase or file altered")

// kdfParams are the scrypt inputs recorded next to the ciphertext so the file
// can be reopened after the defaults change.
type kdfParams struct {
	Salt []byte `json:"salt"`
	N    int    `json:"n"`
	R    int    `json:"r"`
	P    int    `json:"p"`
}

// sealedKeyFile is the on-disk form of an encrypted key/value map.
type sealedKeyFile struct {
	Version int       `json:"version"`
	KDF     kdfParams `json:"kdf"`
	Box     []byte    `json:"box"`
}

// scryptParams are the tunables for key derivation.
type scryptParams struct{ N, R, P int }

func defaultScryptParams() scryptParams { return scryptParams{N: 1 << 15, R: 8, P: 1} }

// seal encrypts the serialized map under a key derived from passphrase.
// Every call draws a new salt, so the derived key is never reused and a
// fixed nonce is safe.
func seal(passphrase string, raw []byte, params scryptParams) ([]byte, error) {
	kdf := kdfParams{Salt: make([]byte, 16), N: params.N, R: params.R, P: params.P}
	if _, err := rand.Read(kdf.Salt); err != nil {
		return nil, err
	}
	aead, err := keyFileCipher(passphrase, kdf)
	if err != nil {
		return nil, err
	}

	var nonce [chacha20poly1305.NonceSize]byte
	return json.Marshal(sealedKeyFile{
		Version: keyFileVersion,
		KDF:     kdf,
		Box:     aead.Seal(nil, nonce[:], raw, additionalData(kdf)),
	})
}

// open reverses seal. Any authentication failure is ErrWrongPassphrase.
func open(passphrase string, b []byte) ([]byte, error) {
	var f sealedKeyFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("key file: %w", err)
	}
	if f.Version != keyFileVersion {
		return nil, fmt.Errorf("key file: unsupported version %d", f.Version)
	}
	if f.KDF.N <= 1 || f.KDF.N > maxScryptN || len(f.KDF.Salt) == 0 {
		return nil, fmt.Errorf("key file: implausible kdf parameters")
	}

	aead, err := keyFileCipher(passphrase, f.KDF)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	raw, err := aead.Open(nil, nonce[:], f.Box, additionalData(f.KDF))
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return raw, nil
}

func keyFileCipher(passphrase string, kdf kdfParams) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), kdf.Salt, kdf.N, kdf.R, kdf.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("key file: derive key: %w", err)
	}
	defer memzero.Zero(key)
	return chacha20poly1305.New(key)
}

// additionalData binds the ciphertext to the format version and salt.
func additionalData(kdf kdfParams) []byte {
	return append([]byte(fmt.Sprintf("walletlink-keyfile-v%d:", keyFileVersion)), kdf.Salt...)
}
