package store_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/store"
	"walletlink/internal/testutil"
)

func TestFileKV_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	kv := store.NewFileKV(home)

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "a", "1"))
	require.NoError(t, kv.Set(ctx, "b", "2"))

	// A fresh instance sees the persisted values.
	reopened := store.NewFileKV(home)
	v, ok, err := reopened.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, reopened.Remove(ctx, "a"))
	require.NoError(t, reopened.Remove(ctx, "a"))
	_, ok, err = kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	info, err := os.Stat(kv.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSealedFileKV_WrongPassphrase_Fails(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()

	require.NoError(t, store.NewSealedFileKV(home, "correct horse").Set(ctx, "k", "v"))

	v, ok, err := store.NewSealedFileKV(home, "correct horse").Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, _, err = store.NewSealedFileKV(home, "wrong").Get(ctx, "k")
	require.ErrorIs(t, err, store.ErrWrongPassphrase)

	raw, err := os.ReadFile(store.NewSealedFileKV(home, "x").Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"k"`)
}

func TestSealedFileKV_AlteredFileRejected(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	kv := store.NewSealedFileKV(home, "correct horse")
	require.NoError(t, kv.Set(ctx, "k", "v"))

	raw, err := os.ReadFile(kv.Path())
	require.NoError(t, err)
	var f map[string]any
	require.NoError(t, json.Unmarshal(raw, &f))

	// Swapping the salt changes the derived key and the bound data.
	f["kdf"].(map[string]any)["salt"] = "AAAAAAAAAAAAAAAAAAAAAA=="
	altered, err := json.Marshal(f)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(kv.Path(), altered, 0o600))
	_, _, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, store.ErrWrongPassphrase)

	f["version"] = 2
	altered, err = json.Marshal(f)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(kv.Path(), altered, 0o600))
	_, _, err = kv.Get(ctx, "k")
	require.ErrorContains(t, err, "unsupported version")
}

func TestKeyStore_KeyPair(t *testing.T) {
	ctx := context.Background()
	ks := store.NewKeyStore(store.NewMemoryKV())

	_, err := ks.LoadKeyPair(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, ks.SaveKeyPair(ctx, kp))

	got, err := ks.LoadKeyPair(ctx)
	require.NoError(t, err)
	assert.Equal(t, kp, got)
}

func TestKeyStore_KeyPairMismatch_IsStorageError(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	ks := store.NewKeyStore(kv)

	a, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	b, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, ks.SaveKeyPair(ctx, domain.KeyPair{Secret: a.Secret, Public: b.Public}))

	_, err = ks.LoadKeyPair(ctx)
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestKeyStore_SharedSecret(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	ks := store.NewKeyStore(kv)

	_, err := ks.LoadSharedSecret(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	secret := domain.SharedSecret{1, 2, 3}
	require.NoError(t, ks.SaveSharedSecret(ctx, secret))

	raw, ok, err := kv.Get(ctx, store.SharedSecretKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, raw, 64)

	got, err := ks.LoadSharedSecret(ctx)
	require.NoError(t, err)
	assert.Equal(t, secret, got)

	require.NoError(t, ks.ClearSharedSecret(ctx))
	_, err = ks.LoadSharedSecret(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKeyStore_CorruptAndFailing(t *testing.T) {
	ctx := context.Background()

	t.Run("bad hex", func(t *testing.T) {
		kv := store.NewMemoryKV()
		require.NoError(t, kv.Set(ctx, store.SharedSecretKey, "not-hex"))
		_, err := store.NewKeyStore(kv).LoadSharedSecret(ctx)
		require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})

	t.Run("wrong length", func(t *testing.T) {
		kv := store.NewMemoryKV()
		require.NoError(t, kv.Set(ctx, store.SharedSecretKey, "0xabcd"))
		_, err := store.NewKeyStore(kv).LoadSharedSecret(ctx)
		require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})

	t.Run("backend read failure", func(t *testing.T) {
		kv := testutil.NewFailingKV(store.NewMemoryKV())
		kv.FailReads(true)
		_, err := store.NewKeyStore(kv).LoadKeyPair(ctx)
		require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})

	t.Run("backend write failure", func(t *testing.T) {
		kv := testutil.NewFailingKV(store.NewMemoryKV())
		kv.FailWrites(true)
		ks := store.NewKeyStore(kv)
		require.ErrorIs(t, ks.SaveSharedSecret(ctx, domain.SharedSecret{}), domain.ErrStorageUnavailable)
		require.ErrorIs(t, ks.ClearSharedSecret(ctx), domain.ErrStorageUnavailable)
	})
}
