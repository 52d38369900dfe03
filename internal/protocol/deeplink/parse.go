package deeplink

import (
	"fmt"
	"net/url"
	"strings"

	"walletlink/internal/codec"
	"walletlink/internal/domain"
)

// Query keys read from inbound callbacks. Other keys are ignored.
const (
	ParamResponse = "response"
	ParamData     = "data"
)

// ParseCallback extracts (operation, status, data) from raw.
//
// It returns domain.ErrForeignLink if raw does not start with appScheme://,
// domain.ErrMalformedCallback if the query cannot be decoded, and
// domain.ErrUnknownTopic if the path names neither operation.
func ParseCallback(appScheme, raw string) (domain.CallbackEnvelope, error) {
	rest, ok := cutScheme(raw, appScheme)
	if !ok {
		return domain.CallbackEnvelope{}, domain.ErrForeignLink
	}

	topic, query, _ := strings.Cut(rest, "?")
	query, _, _ = strings.Cut(query, "#")

	params, err := ParseQuery(query)
	if err != nil {
		return domain.CallbackEnvelope{}, fmt.Errorf("%w: %v", domain.ErrMalformedCallback, err)
	}

	env := domain.CallbackEnvelope{
		Status: params[ParamResponse],
		Data:   params[ParamData],
	}
	switch {
	case strings.Contains(topic, PathConnect):
		env.Operation = domain.OperationPairing
	case strings.Contains(topic, PathResponse):
		env.Operation = domain.OperationSubmission
	default:
		return domain.CallbackEnvelope{}, fmt.Errorf("%w: %q", domain.ErrUnknownTopic, topic)
	}
	return env, nil
}

// ParseQuery splits q on '&' and '=' and percent-decodes keys and values.
// Unlike url.ParseQuery it leaves '+' alone. Later duplicates win.
func ParseQuery(q string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(q, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.PathUnescape(k)
		if err != nil {
			return nil, err
		}
		val, err := url.PathUnescape(v)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}

// ParsePairingData decodes the wallet's public key from a connect callback's
// data parameter (base64 JSON, hex key, optional 0x prefix).
func ParsePairingData(data string) (domain.X25519Public, error) {
	var approval ConnectApproval
	if err := decodeParams(data, &approval); err != nil {
		return domain.X25519Public{}, fmt.Errorf("%w: %v", domain.ErrMalformedCallback, err)
	}
	if approval.WalletPublicKey == "" {
		return domain.X25519Public{}, fmt.Errorf("%w: missing wallet public key", domain.ErrMalformedCallback)
	}
	b, err := codec.HexDecode(approval.WalletPublicKey)
	if err != nil {
		return domain.X25519Public{}, fmt.Errorf("%w: %v", domain.ErrMalformedCallback, err)
	}
	pub, err := domain.X25519PublicFromBytes(b)
	if err != nil {
		return domain.X25519Public{}, fmt.Errorf("%w: %v", domain.ErrMalformedCallback, err)
	}
	return pub, nil
}

// cutScheme strips "<scheme>://" from raw, matching the scheme case-insensitively.
func cutScheme(raw, scheme string) (string, bool) {
	prefix := scheme + "://"
	if scheme == "" || len(raw) < len(prefix) || !strings.EqualFold(raw[:len(prefix)], prefix) {
		return "", false
	}
	return raw[len(prefix):], true
}
