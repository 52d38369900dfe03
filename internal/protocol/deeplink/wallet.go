package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"walletlink/internal/codec"
	"walletlink/internal/domain"
)

// ErrUnsupportedRequest is returned by ParseRequest for unknown wallet paths.
var ErrUnsupportedRequest = errors.New("unsupported wallet request")

// WalletRequest is an outbound link as seen by the wallet. Exactly one of
// Connect and SignAndSubmit is set.
type WalletRequest struct {
	Path          string
	Connect       *ConnectRequest
	SignAndSubmit *SignAndSubmitRequest
}

// ParseRequest decodes a link addressed to walletScheme.
func ParseRequest(walletScheme, raw string) (WalletRequest, error) {
	rest, ok := cutScheme(raw, walletScheme)
	if !ok {
		return WalletRequest{}, domain.ErrForeignLink
	}
	p, query, _ := strings.Cut(rest, "?")
	params, err := ParseQuery(query)
	if err != nil {
		return WalletRequest{}, err
	}
	data := params[ParamData]

	req := WalletRequest{Path: path.Base(p)}
	switch req.Path {
	case PathConnect:
		req.Connect = &ConnectRequest{}
		err = decodeParams(data, req.Connect)
	case PathSignAndSubmit:
		req.SignAndSubmit = &SignAndSubmitRequest{}
		err = decodeParams(data, req.SignAndSubmit)
	default:
		return WalletRequest{}, fmt.Errorf("%w: %q", ErrUnsupportedRequest, req.Path)
	}
	if err != nil {
		return WalletRequest{}, fmt.Errorf("decode %s data: %w", req.Path, err)
	}
	return req, nil
}

// PairingApproval encodes the data parameter of an approved connect callback.
func PairingApproval(walletPub domain.X25519Public) (string, error) {
	return encodeParams(ConnectApproval{WalletPublicKey: codec.HexEncode(walletPub.Slice())})
}

// CallbackURL appends response and, if non-empty, data to redirect.
func CallbackURL(redirect, status, data string) string {
	u := redirect + "?" + ParamResponse + "=" + escape(status)
	if data != "" {
		u += "&" + ParamData + "=" + escape(data)
	}
	return u
}

// escape percent-encodes s the way encodeURIComponent does.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
