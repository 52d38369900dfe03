package pairing_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/codec"
	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
	"walletlink/internal/services/pairing"
	"walletlink/internal/store"
	"walletlink/internal/testutil"
	"walletlink/internal/walletsim"
)

type fixture struct {
	kv        *testutil.FailingKV
	keys      *store.KeyStore
	transport *testutil.RecordingTransport
	links     *deeplink.Links
	wallet    *walletsim.Wallet
	svc       *pairing.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w, err := walletsim.New(testutil.WalletScheme)
	require.NoError(t, err)

	f := &fixture{
		kv:        testutil.NewFailingKV(store.NewMemoryKV()),
		transport: &testutil.RecordingTransport{},
		links:     testutil.NewLinks(),
		wallet:    w,
	}
	f.keys = store.NewKeyStore(f.kv)
	f.svc = pairing.New(f.keys, f.transport, f.links, slog.Disabled)
	return f
}

// restart returns a new service over the same storage.
func (f *fixture) restart() *pairing.Service {
	return pairing.New(f.keys, f.transport, f.links, slog.Disabled)
}

// roundTrip has the simulated wallet answer the last opened link.
func (f *fixture) roundTrip(t *testing.T) domain.CallbackEnvelope {
	t.Helper()
	cb, err := f.wallet.HandleURL(f.transport.Last())
	require.NoError(t, err)
	env, err := f.links.ParseCallback(cb)
	require.NoError(t, err)
	return env
}

func dappKey(t *testing.T, rawURL string) string {
	t.Helper()
	req, err := deeplink.ParseRequest(testutil.WalletScheme, rawURL)
	require.NoError(t, err)
	require.NotNil(t, req.Connect)
	return req.Connect.DappEncryptionPublicKey
}

func TestStart_ReusesKeyPair(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	_, err = f.svc.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Pairing, f.svc.State())

	urls := f.transport.URLs()
	require.Len(t, urls, 2)
	assert.Equal(t, dappKey(t, urls[0]), dappKey(t, urls[1]))

	// A restarted service loads the same key pair.
	_, err = f.restart().Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, dappKey(t, urls[0]), dappKey(t, f.transport.Last()))
}

func TestHandleCallback_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleCallback(ctx, f.roundTrip(t)))
	assert.Equal(t, domain.Paired, f.svc.State())

	creds, ok := f.svc.Credentials(ctx)
	require.True(t, ok)

	stored, err := f.keys.LoadSharedSecret(ctx)
	require.NoError(t, err)
	assert.Equal(t, creds.Secret, stored)

	// After a restart the secret comes back from storage.
	again := f.restart()
	assert.Equal(t, domain.Unpaired, again.State())
	reloaded, ok := again.Credentials(ctx)
	require.True(t, ok)
	assert.Equal(t, creds, reloaded)
	assert.Equal(t, domain.Paired, again.State())
}

func TestHandleCallback_Rejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.wallet.SetReject(true)

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	err = f.svc.HandleCallback(ctx, f.roundTrip(t))
	require.ErrorIs(t, err, domain.ErrRejected)
	assert.Equal(t, domain.Unpaired, f.svc.State())

	_, ok := f.svc.Credentials(ctx)
	assert.False(t, ok)
}

func TestHandleCallback_Malformed(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		data string
	}{
		{"not base64", "%%%"},
		{"not json", "bm90IGpzb24"},
		{"missing key", "e30"},
		{"short key", "eyJwZXRyYVB1YmxpY0VuY3J5cHRlZEtleSI6ImFiY2QifQ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Start(ctx)
			require.NoError(t, err)

			err = f.svc.HandleCallback(ctx, domain.CallbackEnvelope{
				Operation: domain.OperationPairing,
				Status:    "approved",
				Data:      tc.data,
			})
			require.ErrorIs(t, err, domain.ErrMalformedCallback)
			assert.Equal(t, domain.Unpaired, f.svc.State())
		})
	}
}

func TestHandleCallback_EmptyDataIsRejection(t *testing.T) {
	f := newFixture(t)
	err := f.svc.HandleCallback(context.Background(), domain.CallbackEnvelope{
		Operation: domain.OperationPairing,
		Status:    "approved",
	})
	require.ErrorIs(t, err, domain.ErrRejected)
}

func TestHandleCallback_StorageWriteFailureKeepsPairing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	f.kv.FailWrites(true)

	require.NoError(t, f.svc.HandleCallback(ctx, f.roundTrip(t)))
	_, ok := f.svc.Credentials(ctx)
	assert.True(t, ok)

	f.kv.FailWrites(false)
	_, err = f.keys.LoadSharedSecret(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStart_StorageReadFailureGeneratesKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.kv.FailReads(true)

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	assert.Len(t, f.transport.URLs(), 1)
}

func TestStart_TransportFailure(t *testing.T) {
	f := newFixture(t)
	svc := pairing.New(f.keys, testutil.FailingTransport{}, f.links, slog.Disabled)

	_, err := svc.Start(context.Background())
	require.ErrorIs(t, err, domain.ErrTransportUnavailable)
	assert.Equal(t, domain.Unpaired, svc.State())
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleCallback(ctx, f.roundTrip(t)))
	pub, ok := f.svc.PublicKey(ctx)
	require.True(t, ok)

	require.NoError(t, f.svc.Forget(ctx))
	assert.Equal(t, domain.Unpaired, f.svc.State())
	_, ok = f.svc.Credentials(ctx)
	assert.False(t, ok)

	// The key pair survives.
	kept, ok := f.svc.PublicKey(ctx)
	require.True(t, ok)
	assert.Equal(t, pub, kept)
}

func seedSharedSecret(t *testing.T, kv domain.KVStore) {
	t.Helper()
	secret := bytes.Repeat([]byte{0x42}, 32)
	require.NoError(t, kv.Set(context.Background(), store.SharedSecretKey, codec.HexEncode(secret)))
}

func TestCredentials_StoredSecretNeedsKeyPair(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedSharedSecret(t, f.kv)

	_, ok := f.svc.Credentials(ctx)
	assert.False(t, ok)
	assert.Equal(t, domain.Unpaired, f.svc.State())
}

func TestStart_NewKeyPairDiscardsStoredSecret(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedSharedSecret(t, f.kv)

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Pairing, f.svc.State())

	_, err = f.keys.LoadSharedSecret(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, ok := f.svc.Credentials(ctx)
	assert.False(t, ok)
}

func TestStart_StaleSecretIgnoredWhenClearFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedSharedSecret(t, f.kv)
	f.kv.FailWrites(true)

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)

	f.kv.FailWrites(false)
	_, ok := f.svc.Credentials(ctx)
	assert.False(t, ok)

	// A completed handshake replaces it.
	require.NoError(t, f.svc.HandleCallback(ctx, f.roundTrip(t)))
	_, ok = f.svc.Credentials(ctx)
	assert.True(t, ok)
}

func TestHandleCallback_RejectedReconnectKeepsPairing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleCallback(ctx, f.roundTrip(t)))
	before, ok := f.svc.Credentials(ctx)
	require.True(t, ok)

	f.wallet.SetReject(true)
	_, err = f.svc.Start(ctx)
	require.NoError(t, err)
	err = f.svc.HandleCallback(ctx, f.roundTrip(t))
	require.ErrorIs(t, err, domain.ErrRejected)

	assert.Equal(t, domain.Paired, f.svc.State())
	after, ok := f.svc.Credentials(ctx)
	require.True(t, ok)
	assert.Equal(t, before, after)
}
