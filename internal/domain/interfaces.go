package domain

import "context"

// KVStore is the durable string key-value store provided by the platform.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// KeyStore persists the local key pair and the shared secret.
// Absent entries yield ErrNotFound; backend or decoding failures wrap
// ErrStorageUnavailable.
type KeyStore interface {
	LoadKeyPair(ctx context.Context) (KeyPair, error)
	SaveKeyPair(ctx context.Context, kp KeyPair) error
	LoadSharedSecret(ctx context.Context) (SharedSecret, error)
	SaveSharedSecret(ctx context.Context, secret SharedSecret) error
	ClearSharedSecret(ctx context.Context) error
}

// Transport is the platform "open URL" capability. OpenURL does not wait for
// the wallet; failures wrap ErrTransportUnavailable.
type Transport interface {
	OpenURL(ctx context.Context, url string) error
}

// CredentialSource yields the credentials needed to encrypt a submission.
type CredentialSource interface {
	Credentials(ctx context.Context) (Credentials, bool)
}

// CallbackHandler receives routed inbound callbacks.
type CallbackHandler interface {
	HandlePairingCallback(ctx context.Context, env CallbackEnvelope)
	HandleSubmissionCallback(ctx context.Context, env CallbackEnvelope)
}

// Wallet is the session surface exposed to the UI layer.
type Wallet interface {
	CallbackHandler
	Connect(ctx context.Context) error
	Submit(ctx context.Context, value uint64) error
	Disconnect(ctx context.Context) error
	Status(ctx context.Context) Status
	SetPairingResultHandler(fn PairingResultFunc)
	SetSubmissionResultHandler(fn SubmissionResultFunc)
}
