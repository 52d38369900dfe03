package store

import (
	"context"
	"errors"
	"fmt"

	"walletlink/internal/codec"
	"walletlink/internal/crypto"
	"walletlink/internal/domain"
)

// Storage keys, shared with earlier releases of the app so an existing
// pairing survives an upgrade.
const (
	SecretKeyKey    = "@2048/petra_secret_key"
	PublicKeyKey    = "@2048/petra_public_key"
	SharedSecretKey = "@2048/petra_shared_key"
)

// KeyStore persists the key pair and shared secret as hex strings in a KVStore.
type KeyStore struct {
	kv domain.KVStore
}

// NewKeyStore returns a KeyStore backed by kv.
func NewKeyStore(kv domain.KVStore) *KeyStore { return &KeyStore{kv: kv} }

// LoadKeyPair returns the stored key pair. Both halves must be present and
// the public key must match the secret key.
func (s *KeyStore) LoadKeyPair(ctx context.Context) (domain.KeyPair, error) {
	secretHex, err := s.get(ctx, SecretKeyKey)
	if err != nil {
		return domain.KeyPair{}, err
	}
	publicHex, err := s.get(ctx, PublicKeyKey)
	if err != nil {
		return domain.KeyPair{}, err
	}

	secretBytes, err := codec.HexDecode(secretHex)
	if err != nil {
		return domain.KeyPair{}, corrupt(SecretKeyKey, err)
	}
	secret, err := domain.X25519PrivateFromBytes(secretBytes)
	if err != nil {
		return domain.KeyPair{}, corrupt(SecretKeyKey, err)
	}
	publicBytes, err := codec.HexDecode(publicHex)
	if err != nil {
		return domain.KeyPair{}, corrupt(PublicKeyKey, err)
	}
	public, err := domain.X25519PublicFromBytes(publicBytes)
	if err != nil {
		return domain.KeyPair{}, corrupt(PublicKeyKey, err)
	}

	derived, err := crypto.PublicKey(secret)
	if err != nil {
		return domain.KeyPair{}, corrupt(SecretKeyKey, err)
	}
	if derived != public {
		return domain.KeyPair{}, corrupt(PublicKeyKey, errors.New("public key does not match secret key"))
	}
	return domain.KeyPair{Secret: secret, Public: public}, nil
}

// SaveKeyPair writes both halves of kp.
func (s *KeyStore) SaveKeyPair(ctx context.Context, kp domain.KeyPair) error {
	if err := s.set(ctx, SecretKeyKey, codec.HexEncode(kp.Secret.Slice())); err != nil {
		return err
	}
	return s.set(ctx, PublicKeyKey, codec.HexEncode(kp.Public.Slice()))
}

// LoadSharedSecret returns the stored shared secret.
func (s *KeyStore) LoadSharedSecret(ctx context.Context) (domain.SharedSecret, error) {
	h, err := s.get(ctx, SharedSecretKey)
	if err != nil {
		return domain.SharedSecret{}, err
	}
	b, err := codec.HexDecode(h)
	if err != nil {
		return domain.SharedSecret{}, corrupt(SharedSecretKey, err)
	}
	secret, err := domain.SharedSecretFromBytes(b)
	if err != nil {
		return domain.SharedSecret{}, corrupt(SharedSecretKey, err)
	}
	return secret, nil
}

// SaveSharedSecret writes secret.
func (s *KeyStore) SaveSharedSecret(ctx context.Context, secret domain.SharedSecret) error {
	return s.set(ctx, SharedSecretKey, codec.HexEncode(secret.Slice()))
}

// ClearSharedSecret removes the shared secret. Removing an absent entry is not an error.
func (s *KeyStore) ClearSharedSecret(ctx context.Context) error {
	if err := s.kv.Remove(ctx, SharedSecretKey); err != nil {
		return fmt.Errorf("%w: remove %s: %v", domain.ErrStorageUnavailable, SharedSecretKey, err)
	}
	return nil
}

func (s *KeyStore) get(ctx context.Context, key string) (string, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", domain.ErrStorageUnavailable, key, err)
	}
	if !ok || v == "" {
		return "", fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	return v, nil
}

func (s *KeyStore) set(ctx context.Context, key, value string) error {
	if err := s.kv.Set(ctx, key, value); err != nil {
		return fmt.Errorf("%w: set %s: %v", domain.ErrStorageUnavailable, key, err)
	}
	return nil
}

func corrupt(key string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, key, err)
}

// Compile-time assertion that KeyStore implements domain.KeyStore.
var _ domain.KeyStore = (*KeyStore)(nil)
