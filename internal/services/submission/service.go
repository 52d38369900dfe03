package submission

import (
	"context"
	"fmt"

	"github.com/decred/slog"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
)

// Statuses the wallet uses to report an approved submission.
var approvedStatuses = map[string]bool{
	"approved": true,
	"success":  true,
}

// Service builds encrypted signAndSubmit requests.
type Service struct {
	creds     domain.CredentialSource
	transport domain.Transport
	links     *deeplink.Links
	log       slog.Logger
}

// New constructs a submission Service.
func New(
	creds domain.CredentialSource,
	transport domain.Transport,
	links *deeplink.Links,
	log slog.Logger,
) *Service {
	return &Service{
		creds:     creds,
		transport: transport,
		links:     links,
		log:       log,
	}
}

// Send seals value for the wallet and opens a signAndSubmit link.
//
// Steps:
//  1. Fetch credentials; without them return domain.ErrNotPaired.
//  2. Build the entry-function payload and encode it as the wallet expects.
//  3. Seal it with the shared secret under a fresh 24-byte nonce.
//  4. Hand the link to the transport.
func (s *Service) Send(ctx context.Context, value uint64) (domain.OutboundRequest, error) {
	creds, ok := s.creds.Credentials(ctx)
	if !ok {
		return domain.OutboundRequest{}, domain.ErrNotPaired
	}

	plaintext, err := deeplink.EncodeSubmissionPlaintext(s.links.Payload(value))
	if err != nil {
		return domain.OutboundRequest{}, fmt.Errorf("encode payload: %w", err)
	}
	nonce, err := crypto.NewNonce()
	if err != nil {
		return domain.OutboundRequest{}, fmt.Errorf("nonce: %w", err)
	}
	ciphertext := crypto.Seal(plaintext, nonce, creds.Secret)

	req, err := s.links.SignAndSubmit(creds.PublicKey, ciphertext, nonce)
	if err != nil {
		return domain.OutboundRequest{}, err
	}
	s.log.Debugf("Opening signAndSubmit request %s", req.ID)
	if err := s.transport.OpenURL(ctx, req.URL()); err != nil {
		return domain.OutboundRequest{}, err
	}
	return req, nil
}

// HandleCallback interprets the wallet's reply to a signAndSubmit request.
// The data parameter is not inspected.
func (s *Service) HandleCallback(env domain.CallbackEnvelope) domain.SubmissionResult {
	if approvedStatuses[env.Status] {
		return domain.SubmissionResult{Success: true}
	}
	msg := env.Status
	if msg == "" {
		msg = domain.RejectedMessage
	}
	return domain.SubmissionResult{Success: false, Message: msg}
}
