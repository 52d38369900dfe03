package session

import (
	"context"
	"sync"

	"github.com/decred/slog"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/services/pairing"
	"walletlink/internal/services/submission"
)

// Session is the explicitly owned wallet session.
type Session struct {
	pairing    *pairing.Service
	submission *submission.Service
	log        slog.Logger

	mu      sync.Mutex // serializes protocol steps
	pending *uint64

	sinkMu       sync.Mutex
	onPairing    domain.PairingResultFunc
	onSubmission domain.SubmissionResultFunc
}

// New constructs a Session over the given services.
func New(p *pairing.Service, s *submission.Service, log slog.Logger) *Session {
	return &Session{
		pairing:    p,
		submission: s,
		log:        log,
	}
}

// SetPairingResultHandler installs fn as the pairing sink; nil clears it.
func (s *Session) SetPairingResultHandler(fn domain.PairingResultFunc) {
	s.sinkMu.Lock()
	s.onPairing = fn
	s.sinkMu.Unlock()
}

// SetSubmissionResultHandler installs fn as the submission sink; nil clears it.
func (s *Session) SetSubmissionResultHandler(fn domain.SubmissionResultFunc) {
	s.sinkMu.Lock()
	s.onSubmission = fn
	s.sinkMu.Unlock()
}

// Connect starts (or restarts) pairing.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.pairing.Start(ctx)
	return err
}

// Submit sends value to the wallet. Without a shared secret the value becomes
// the pending value (replacing any earlier one) and pairing starts; the send
// then happens when the pairing callback succeeds.
func (s *Session) Submit(ctx context.Context, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pairing.Credentials(ctx); !ok {
		if s.pending != nil {
			s.log.Debugf("Replacing pending value %d with %d", *s.pending, value)
		}
		s.pending = &value
		if _, err := s.pairing.Start(ctx); err != nil {
			s.pending = nil
			return err
		}
		s.log.Infof("Value %d pending until the wallet approves pairing", value)
		return nil
	}

	_, err := s.submission.Send(ctx, value)
	return err
}

// HandlePairingCallback completes pairing and, on success, sends the pending
// value.
func (s *Session) HandlePairingCallback(ctx context.Context, env domain.CallbackEnvelope) {
	for _, fn := range s.completePairing(ctx, env) {
		fn()
	}
}

// HandleSubmissionCallback reports the wallet's verdict on a submission.
func (s *Session) HandleSubmissionCallback(ctx context.Context, env domain.CallbackEnvelope) {
	s.completeSubmission(env)()
}

// completePairing runs the locked part of HandlePairingCallback and returns
// the sink calls to make once the lock is released.
func (s *Session) completePairing(ctx context.Context, env domain.CallbackEnvelope) []func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.pairing.HandleCallback(ctx, env)
	notify := []func(){s.pairingOutcome(err)}

	if s.pending == nil {
		return notify
	}
	value := *s.pending
	s.pending = nil
	if err != nil {
		s.log.Infof("Dropping pending value %d after failed pairing", value)
		return notify
	}
	if _, sendErr := s.submission.Send(ctx, value); sendErr != nil {
		notify = append(notify, s.submissionOutcome(sendFailure(sendErr)))
	}
	return notify
}

func (s *Session) completeSubmission(env domain.CallbackEnvelope) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submissionOutcome(s.submission.HandleCallback(env))
}

// Disconnect forgets the shared secret and the pending value. The key pair
// is kept so the wallet recognises us when we pair again.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	if err := s.pairing.Forget(ctx); err != nil {
		s.log.Warnf("Clearing stored shared secret failed: %v", err)
	}
	s.log.Infof("Disconnected from wallet")
	return nil
}

// Status returns a snapshot for display.
func (s *Session) Status(ctx context.Context) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, connected := s.pairing.Credentials(ctx)
	st := domain.Status{
		State:     s.pairing.State(),
		Connected: connected,
	}
	if pub, ok := s.pairing.PublicKey(ctx); ok {
		st.Fingerprint = crypto.Fingerprint(pub)
	}
	if s.pending != nil {
		v := *s.pending
		st.Pending = &v
	}
	return st
}

// Close tears the session down: the pending value and sinks are dropped and
// in-memory key material is wiped. Stored pairing material is untouched.
func (s *Session) Close() {
	s.mu.Lock()
	s.pending = nil
	s.pairing.Close()
	s.mu.Unlock()

	s.SetPairingResultHandler(nil)
	s.SetSubmissionResultHandler(nil)
}

// Compile-time assertion that Session implements domain.Wallet.
var _ domain.Wallet = (*Session)(nil)
