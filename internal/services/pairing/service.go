package pairing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/decred/slog"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
	"walletlink/internal/util/memzero"
)

// Statuses the wallet uses to decline a connect request.
var rejectedStatuses = map[string]bool{
	"rejected":  true,
	"cancelled": true,
	"canceled":  true,
}

// Service performs the pairing handshake.
type Service struct {
	keys      domain.KeyStore
	transport domain.Transport
	links     *deeplink.Links
	log       slog.Logger

	mu      sync.Mutex
	state   domain.PairingState
	keyPair *domain.KeyPair
	secret  *domain.SharedSecret

	// Set when a key pair was generated in this process; any stored secret
	// belongs to an older key pair until a pairing callback replaces it.
	storedSecretStale bool
}

// New constructs a pairing Service. log may be slog.Disabled.
func New(
	keys domain.KeyStore,
	transport domain.Transport,
	links *deeplink.Links,
	log slog.Logger,
) *Service {
	return &Service{
		keys:      keys,
		transport: transport,
		links:     links,
		log:       log,
		state:     domain.Unpaired,
	}
}

// Start opens a connect link carrying our public key and moves to Pairing.
//
// Calling Start again before a callback arrives is safe: the same key pair is
// reused and the new request supersedes the stalled one.
func (s *Service) Start(ctx context.Context) (domain.OutboundRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kp, err := s.ensureKeyPairLocked(ctx)
	if err != nil {
		return domain.OutboundRequest{}, err
	}

	req, err := s.links.Connect(kp.Public)
	if err != nil {
		return domain.OutboundRequest{}, err
	}
	s.log.Debugf("Opening connect request %s for key %s", req.ID, crypto.Fingerprint(kp.Public))
	if err := s.transport.OpenURL(ctx, req.URL()); err != nil {
		return domain.OutboundRequest{}, err
	}
	if s.secret == nil {
		s.state = domain.Pairing
	}
	return req, nil
}

// HandleCallback processes the wallet's reply to a connect request.
//
// A rejection or missing data returns domain.ErrRejected; anything that
// cannot be decoded returns domain.ErrMalformedCallback. In both cases an
// existing pairing is kept: the state returns to Paired if a shared secret is
// held and to Unpaired otherwise. On success the shared secret is kept in
// memory, persisted best-effort, and the state becomes Paired.
func (s *Service) HandleCallback(ctx context.Context, env domain.CallbackEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rejectedStatuses[env.Status] || env.Data == "" {
		s.abandonLocked()
		return fmt.Errorf("%w: status %q", domain.ErrRejected, env.Status)
	}

	walletPub, err := deeplink.ParsePairingData(env.Data)
	if err != nil {
		s.abandonLocked()
		return err
	}

	// After a restart the key pair only exists in storage.
	if s.keyPair == nil {
		kp, err := s.keys.LoadKeyPair(ctx)
		if err != nil {
			s.abandonLocked()
			return fmt.Errorf("no local key pair to complete pairing: %w", err)
		}
		s.keyPair = &kp
	}

	secret, err := crypto.SharedSecret(s.keyPair.Secret, walletPub)
	if err != nil {
		s.abandonLocked()
		return fmt.Errorf("%w: %v", domain.ErrMalformedCallback, err)
	}

	s.setSecretLocked(&secret)
	s.storedSecretStale = false
	s.state = domain.Paired
	if err := s.keys.SaveSharedSecret(ctx, secret); err != nil {
		s.log.Warnf("Persisting shared secret failed, pairing kept in memory only: %v", err)
	}
	s.log.Infof("Paired with wallet key %s", crypto.Fingerprint(walletPub))
	return nil
}

// Credentials returns our public key and the shared secret, checking memory
// first and falling back to storage after a restart. A stored secret is only
// adopted once the key pair it was derived from has loaded.
func (s *Service) Credentials(ctx context.Context) (domain.Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keyPair == nil {
		kp, err := s.keys.LoadKeyPair(ctx)
		if err != nil {
			s.logReadFailure("key pair", err)
			return domain.Credentials{}, false
		}
		s.keyPair = &kp
	}
	if s.secret == nil {
		if s.storedSecretStale {
			return domain.Credentials{}, false
		}
		secret, err := s.keys.LoadSharedSecret(ctx)
		if err != nil {
			s.logReadFailure("shared secret", err)
			return domain.Credentials{}, false
		}
		s.setSecretLocked(&secret)
		s.state = domain.Paired
	}
	return domain.Credentials{PublicKey: s.keyPair.Public, Secret: *s.secret}, true
}

// PublicKey returns our public key, loading it from storage if needed.
// It never generates a key pair.
func (s *Service) PublicKey(ctx context.Context) (domain.X25519Public, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keyPair == nil {
		kp, err := s.keys.LoadKeyPair(ctx)
		if err != nil {
			s.logReadFailure("key pair", err)
			return domain.X25519Public{}, false
		}
		s.keyPair = &kp
	}
	return s.keyPair.Public, true
}

// State reports the handshake state.
func (s *Service) State() domain.PairingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Forget drops the shared secret from memory and storage and returns to
// Unpaired. The key pair is kept. A storage error is returned after the
// in-memory state has been cleared; the stored copy is then ignored for the
// rest of this process.
func (s *Service) Forget(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setSecretLocked(nil)
	s.storedSecretStale = true
	s.state = domain.Unpaired
	return s.keys.ClearSharedSecret(ctx)
}

// Close wipes in-memory key material.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setSecretLocked(nil)
	if s.keyPair != nil {
		memzero.Zero(s.keyPair.Secret[:])
		s.keyPair = nil
	}
	s.state = domain.Unpaired
}

// ensureKeyPairLocked returns the in-memory key pair, loading it or creating
// and persisting a fresh one as needed.
func (s *Service) ensureKeyPairLocked(ctx context.Context) (domain.KeyPair, error) {
	if s.keyPair != nil {
		return *s.keyPair, nil
	}

	kp, err := s.keys.LoadKeyPair(ctx)
	if err == nil {
		s.keyPair = &kp
		return kp, nil
	}
	s.logReadFailure("key pair", err)

	kp, err = crypto.GenerateKeyPair()
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("generate key pair: %w", err)
	}
	s.keyPair = &kp

	// A secret from an earlier key pair cannot be used with this one.
	s.setSecretLocked(nil)
	s.storedSecretStale = true
	s.state = domain.Unpaired
	if err := s.keys.ClearSharedSecret(ctx); err != nil {
		s.log.Warnf("Clearing stale shared secret failed: %v", err)
	}
	if err := s.keys.SaveKeyPair(ctx, kp); err != nil {
		s.log.Warnf("Persisting key pair failed, a restart will require re-pairing: %v", err)
	}
	s.log.Infof("Generated key pair %s", crypto.Fingerprint(kp.Public))
	return kp, nil
}

// abandonLocked ends a failed handshake without touching an existing pairing.
func (s *Service) abandonLocked() {
	if s.secret != nil {
		s.state = domain.Paired
		return
	}
	s.state = domain.Unpaired
}

func (s *Service) setSecretLocked(secret *domain.SharedSecret) {
	if s.secret != nil {
		memzero.Zero(s.secret[:])
	}
	s.secret = secret
}

func (s *Service) logReadFailure(what string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Debugf("No stored %s", what)
		return
	}
	s.log.Warnf("Reading stored %s failed, treating as absent: %v", what, err)
}

// Compile-time assertion that Service implements domain.CredentialSource.
var _ domain.CredentialSource = (*Service)(nil)
