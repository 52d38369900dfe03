package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
)

func mustKeyPair(t *testing.T) domain.KeyPair {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	return kp
}

func TestGenerateKeyPair_PublicMatchesSecret(t *testing.T) {
	kp := mustKeyPair(t)
	pub, err := crypto.PublicKey(kp.Secret)
	require.NoError(t, err)
	assert.Equal(t, kp.Public, pub)
	assert.NotEqual(t, domain.X25519Public{}, kp.Public)
}

func TestSharedSecret_Symmetric(t *testing.T) {
	app := mustKeyPair(t)
	wallet := mustKeyPair(t)

	ours, err := crypto.SharedSecret(app.Secret, wallet.Public)
	require.NoError(t, err)
	theirs, err := crypto.SharedSecret(wallet.Secret, app.Public)
	require.NoError(t, err)
	assert.Equal(t, ours, theirs)

	nonce, err := crypto.NewNonce()
	require.NoError(t, err)
	ct := crypto.Seal([]byte(`"eyJ0eXBlIjoi"`), nonce, ours)

	pt, err := crypto.Open(ct, nonce, theirs)
	require.NoError(t, err)
	assert.Equal(t, `"eyJ0eXBlIjoi"`, string(pt))
}

func TestSeal_InteropWithBox(t *testing.T) {
	// A tweetnacl peer uses box.Seal with its secret key and our public key.
	app := mustKeyPair(t)
	wallet := mustKeyPair(t)
	key, err := crypto.SharedSecret(app.Secret, wallet.Public)
	require.NoError(t, err)

	nonce, err := crypto.NewNonce()
	require.NoError(t, err)
	n := [24]byte(nonce)
	pub := [32]byte(app.Public)
	sk := [32]byte(wallet.Secret)
	ct := box.Seal(nil, []byte("hello"), &n, &pub, &sk)

	pt, err := crypto.Open(ct, nonce, key)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(pt))
}

func TestOpen_Tampered(t *testing.T) {
	app := mustKeyPair(t)
	wallet := mustKeyPair(t)
	key, err := crypto.SharedSecret(app.Secret, wallet.Public)
	require.NoError(t, err)

	nonce, err := crypto.NewNonce()
	require.NoError(t, err)
	ct := crypto.Seal([]byte("score"), nonce, key)
	ct[len(ct)-1] ^= 0x01

	_, err = crypto.Open(ct, nonce, key)
	require.ErrorIs(t, err, crypto.ErrDecrypt)
}

func TestSharedSecret_RejectsLowOrderPoint(t *testing.T) {
	app := mustKeyPair(t)
	_, err := crypto.SharedSecret(app.Secret, domain.X25519Public{})
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	kp := mustKeyPair(t)
	fp := crypto.Fingerprint(kp.Public)
	assert.Len(t, fp, 20)
	assert.Equal(t, fp, crypto.Fingerprint(kp.Public))
}
