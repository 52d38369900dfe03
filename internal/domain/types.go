package domain

// Operation names the protocol step an inbound callback belongs to.
type Operation string

const (
	OperationPairing    Operation = "pairing"
	OperationSubmission Operation = "submission"
)

// String returns the string form of the operation.
func (o Operation) String() string { return string(o) }

// PairingState tracks the pairing handshake.
type PairingState int

const (
	Unpaired PairingState = iota
	Pairing
	Paired
)

func (s PairingState) String() string {
	switch s {
	case Unpaired:
		return "unpaired"
	case Pairing:
		return "pairing"
	case Paired:
		return "paired"
	default:
		return "unknown"
	}
}

// AppInfo identifies this application to the wallet.
type AppInfo struct {
	Domain string `json:"domain" yaml:"domain"`
	Name   string `json:"name" yaml:"name"`
}

// CallbackEnvelope is parsed from an inbound deep link. Empty Status or Data
// means the parameter was absent.
type CallbackEnvelope struct {
	Operation Operation
	Status    string
	Data      string
}

// OutboundRequest is a deep link addressed to the wallet. It is rendered with
// URL and handed to the Transport; it is not retained.
type OutboundRequest struct {
	ID            string // correlation id for logs only, never sent
	TargetBase    string // e.g. petra://api/v1
	OperationPath string // e.g. connect
	EncodedParams string // base64 JSON
}

// URL renders the request as <base>/<path>?data=<params>.
func (r OutboundRequest) URL() string {
	return r.TargetBase + "/" + r.OperationPath + "?data=" + r.EncodedParams
}

// SubmissionResult is the interpreted outcome of a submission callback.
type SubmissionResult struct {
	Success bool
	Message string // empty on success
}

// PairingResultFunc receives the outcome of a pairing round trip.
type PairingResultFunc func(approved bool)

// SubmissionResultFunc receives the outcome of a submission. message is empty
// on success.
type SubmissionResultFunc func(success bool, message string)

// Status is a point-in-time view of a session for display.
type Status struct {
	State       PairingState
	Connected   bool
	Fingerprint string // of our public key; empty if no key pair yet
	Pending     *uint64
}
