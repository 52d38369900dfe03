package session

import (
	"errors"

	"walletlink/internal/domain"
)

// pairingOutcome logs err and returns the pairing sink call for it. Rejected
// and malformed callbacks are indistinguishable to the sink.
func (s *Session) pairingOutcome(err error) func() {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRejected):
		s.log.Infof("Wallet declined pairing: %v", err)
	case errors.Is(err, domain.ErrMalformedCallback):
		s.log.Warnf("Unreadable pairing callback: %v", err)
	default:
		s.log.Warnf("Pairing failed: %v", err)
	}

	s.sinkMu.Lock()
	fn := s.onPairing
	s.sinkMu.Unlock()

	approved := err == nil
	return func() {
		if fn != nil {
			fn(approved)
		}
	}
}

// submissionOutcome returns the submission sink call for res.
func (s *Session) submissionOutcome(res domain.SubmissionResult) func() {
	if res.Success {
		s.log.Infof("Wallet approved submission")
	} else {
		s.log.Infof("Submission failed: %s", res.Message)
	}

	s.sinkMu.Lock()
	fn := s.onSubmission
	s.sinkMu.Unlock()

	return func() {
		if fn != nil {
			fn(res.Success, res.Message)
		}
	}
}

// sendFailure converts an error from submission.Send into a sink result.
func sendFailure(err error) domain.SubmissionResult {
	if errors.Is(err, domain.ErrTransportUnavailable) {
		return domain.SubmissionResult{Message: domain.WalletUnavailableMessage}
	}
	return domain.SubmissionResult{Message: err.Error()}
}
