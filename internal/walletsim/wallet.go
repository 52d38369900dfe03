package walletsim

import (
	"fmt"
	"sync"

	"walletlink/internal/codec"
	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
)

// Callback statuses used by the wallet.
const (
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is a decrypted signAndSubmit request.
type Submission struct {
	AppInfo       domain.AppInfo
	DappPublicKey domain.X25519Public
	Payload       deeplink.EntryFunctionPayload
}

// Wallet simulates the wallet side of the protocol.
type Wallet struct {
	scheme string
	keys   domain.KeyPair

	mu          sync.Mutex
	reject      bool
	submissions []Submission
}

// New creates a wallet listening on scheme with a fresh key pair.
func New(scheme string) (*Wallet, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Wallet{scheme: scheme, keys: kp}, nil
}

// PublicKey returns the wallet's encryption key.
func (w *Wallet) PublicKey() domain.X25519Public { return w.keys.Public }

// SetReject makes the wallet decline every subsequent request.
func (w *Wallet) SetReject(v bool) {
	w.mu.Lock()
	w.reject = v
	w.mu.Unlock()
}

// Submissions returns the submissions received so far.
func (w *Wallet) Submissions() []Submission {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Submission(nil), w.submissions...)
}

// HandleURL answers one outbound link and returns the callback URL the
// wallet would open.
func (w *Wallet) HandleURL(raw string) (string, error) {
	req, err := deeplink.ParseRequest(w.scheme, raw)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	reject := w.reject
	w.mu.Unlock()

	switch {
	case req.Connect != nil:
		return w.connect(req.Connect, reject)
	case req.SignAndSubmit != nil:
		return w.signAndSubmit(req.SignAndSubmit, reject)
	}
	return "", deeplink.ErrUnsupportedRequest
}

func (w *Wallet) connect(r *deeplink.ConnectRequest, reject bool) (string, error) {
	if reject {
		return deeplink.CallbackURL(r.RedirectLink, StatusRejected, ""), nil
	}
	data, err := deeplink.PairingApproval(w.keys.Public)
	if err != nil {
		return "", err
	}
	return deeplink.CallbackURL(r.RedirectLink, StatusApproved, data), nil
}

func (w *Wallet) signAndSubmit(r *deeplink.SignAndSubmitRequest, reject bool) (string, error) {
	sub, err := w.decrypt(r)
	if err != nil {
		return "", err
	}
	if reject {
		return deeplink.CallbackURL(r.RedirectLink, StatusRejected, ""), nil
	}

	w.mu.Lock()
	w.submissions = append(w.submissions, sub)
	w.mu.Unlock()
	return deeplink.CallbackURL(r.RedirectLink, StatusApproved, ""), nil
}

func (w *Wallet) decrypt(r *deeplink.SignAndSubmitRequest) (Submission, error) {
	pubBytes, err := codec.HexDecode(r.DappEncryptionPublicKey)
	if err != nil {
		return Submission{}, fmt.Errorf("dapp key: %w", err)
	}
	pub, err := domain.X25519PublicFromBytes(pubBytes)
	if err != nil {
		return Submission{}, fmt.Errorf("dapp key: %w", err)
	}
	nonceBytes, err := codec.HexDecode(r.Nonce)
	if err != nil {
		return Submission{}, fmt.Errorf("nonce: %w", err)
	}
	if len(nonceBytes) != len(domain.Nonce{}) {
		return Submission{}, fmt.Errorf("nonce: want %d bytes, got %d", len(domain.Nonce{}), len(nonceBytes))
	}
	var nonce domain.Nonce
	copy(nonce[:], nonceBytes)

	ciphertext, err := codec.HexDecode(r.Payload)
	if err != nil {
		return Submission{}, fmt.Errorf("payload: %w", err)
	}
	secret, err := crypto.SharedSecret(w.keys.Secret, pub)
	if err != nil {
		return Submission{}, err
	}
	plaintext, err := crypto.Open(ciphertext, nonce, secret)
	if err != nil {
		return Submission{}, err
	}
	payload, err := deeplink.DecodeSubmissionPlaintext(plaintext)
	if err != nil {
		return Submission{}, err
	}
	return Submission{AppInfo: r.AppInfo, DappPublicKey: pub, Payload: payload}, nil
}
