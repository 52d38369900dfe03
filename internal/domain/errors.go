package domain

import "errors"

var (
	// ErrRejected indicates the wallet explicitly declined.
	ErrRejected = errors.New("rejected by wallet")

	// ErrMalformedCallback indicates inbound data that could not be decoded or parsed.
	ErrMalformedCallback = errors.New("malformed callback")

	// ErrStorageUnavailable indicates the durable store failed or held unusable data.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrTransportUnavailable indicates the platform could not open the outbound URL.
	ErrTransportUnavailable = errors.New("wallet transport unavailable")

	// ErrNotFound indicates the requested key is absent from the store.
	ErrNotFound = errors.New("not found")

	// ErrNotPaired indicates an operation needs a shared secret that does not exist.
	ErrNotPaired = errors.New("not paired with wallet")

	// ErrForeignLink indicates an inbound URL for some other application's scheme.
	ErrForeignLink = errors.New("link does not use the application scheme")

	// ErrUnknownTopic indicates an inbound URL whose path names no known operation.
	ErrUnknownTopic = errors.New("unknown callback topic")
)

// WalletUnavailableMessage is reported to the submission sink when the wallet
// app could not be opened.
const WalletUnavailableMessage = "Unable to open the wallet app. Install the wallet on this device and try again."

// RejectedMessage is reported when a submission callback carries no status.
const RejectedMessage = "Rejected"
