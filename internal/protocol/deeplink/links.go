package deeplink

import (
	"fmt"

	"github.com/google/uuid"

	"walletlink/internal/codec"
	"walletlink/internal/domain"
)

// Path segments and topics.
const (
	PathConnect       = "connect"
	PathSignAndSubmit = "signAndSubmit"
	PathResponse      = "response"
)

// Config carries everything needed to address the wallet and be called back.
type Config struct {
	WalletScheme string
	AppScheme    string
	APIVersion   string
	AppInfo      domain.AppInfo
	Function     string
}

// Links builds outbound requests and parses inbound callbacks for one app.
type Links struct {
	cfg Config
}

// NewLinks returns a Links for cfg. An empty APIVersion defaults to v1.
func NewLinks(cfg Config) *Links {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1"
	}
	return &Links{cfg: cfg}
}

// Config returns the configuration in use.
func (l *Links) Config() Config { return l.cfg }

// AppScheme returns the scheme inbound callbacks must use.
func (l *Links) AppScheme() string { return l.cfg.AppScheme }

// WalletBase returns <wallet>://api/<version>.
func (l *Links) WalletBase() string {
	return l.cfg.WalletScheme + "://api/" + l.cfg.APIVersion
}

// RedirectLink returns the callback target for op.
func (l *Links) RedirectLink(op domain.Operation) string {
	base := l.cfg.AppScheme + "://api/" + l.cfg.APIVersion + "/"
	if op == domain.OperationSubmission {
		return base + PathResponse
	}
	return base + PathConnect
}

// Connect builds the pairing request carrying our public key.
func (l *Links) Connect(pub domain.X25519Public) (domain.OutboundRequest, error) {
	return l.request(PathConnect, ConnectRequest{
		AppInfo:                 l.cfg.AppInfo,
		RedirectLink:            l.RedirectLink(domain.OperationPairing),
		DappEncryptionPublicKey: codec.HexEncode(pub.Slice()),
	})
}

// SignAndSubmit builds the submission request for an already sealed payload.
func (l *Links) SignAndSubmit(pub domain.X25519Public, ciphertext []byte, nonce domain.Nonce) (domain.OutboundRequest, error) {
	return l.request(PathSignAndSubmit, SignAndSubmitRequest{
		AppInfo:                 l.cfg.AppInfo,
		Payload:                 codec.HexEncode(ciphertext),
		RedirectLink:            l.RedirectLink(domain.OperationSubmission),
		DappEncryptionPublicKey: codec.HexEncode(pub.Slice()),
		Nonce:                   codec.HexEncode(nonce.Slice()),
	})
}

// Payload returns the entry-function call for value.
func (l *Links) Payload(value uint64) EntryFunctionPayload {
	return NewEntryFunctionPayload(l.cfg.Function, value)
}

// ParseCallback parses an inbound link addressed to this app.
func (l *Links) ParseCallback(raw string) (domain.CallbackEnvelope, error) {
	return ParseCallback(l.cfg.AppScheme, raw)
}

func (l *Links) request(path string, params any) (domain.OutboundRequest, error) {
	enc, err := encodeParams(params)
	if err != nil {
		return domain.OutboundRequest{}, fmt.Errorf("encode %s params: %w", path, err)
	}
	return domain.OutboundRequest{
		ID:            uuid.NewString(),
		TargetBase:    l.WalletBase(),
		OperationPath: path,
		EncodedParams: enc,
	}, nil
}
