package deeplink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"walletlink/internal/codec"
	"walletlink/internal/domain"
)

// ConnectRequest is the data parameter of a connect link.
type ConnectRequest struct {
	AppInfo                 domain.AppInfo `json:"appInfo"`
	RedirectLink            string         `json:"redirectLink"`
	DappEncryptionPublicKey string         `json:"dappEncryptionPublicKey"`
}

// SignAndSubmitRequest is the data parameter of a signAndSubmit link.
type SignAndSubmitRequest struct {
	AppInfo                 domain.AppInfo `json:"appInfo"`
	Payload                 string         `json:"payload"`
	RedirectLink            string         `json:"redirectLink"`
	DappEncryptionPublicKey string         `json:"dappEncryptionPublicKey"`
	Nonce                   string         `json:"nonce"`
}

// ConnectApproval is the data parameter the wallet returns on a successful connect.
type ConnectApproval struct {
	WalletPublicKey string `json:"petraPublicEncryptedKey"`
}

// EntryFunctionPayload is the call submitted to the chain.
type EntryFunctionPayload struct {
	Type          string   `json:"type"`
	Function      string   `json:"function"`
	Arguments     []string `json:"arguments"`
	TypeArguments []string `json:"type_arguments"`
}

const entryFunctionPayloadType = "entry_function_payload"

// NewEntryFunctionPayload embeds value, in decimal, as the sole argument of
// function. Range validation is left to the chain.
func NewEntryFunctionPayload(function string, value uint64) EntryFunctionPayload {
	return EntryFunctionPayload{
		Type:          entryFunctionPayloadType,
		Function:      function,
		Arguments:     []string{strconv.FormatUint(value, 10)},
		TypeArguments: []string{},
	}
}

// EncodeSubmissionPlaintext returns the bytes to seal for a signAndSubmit
// request: the JSON string literal of base64(JSON(p)).
func EncodeSubmissionPlaintext(p EntryFunctionPayload) ([]byte, error) {
	j, err := marshalJSON(p)
	if err != nil {
		return nil, err
	}
	return marshalJSON(codec.Base64Encode(string(j)))
}

// DecodeSubmissionPlaintext reverses EncodeSubmissionPlaintext.
func DecodeSubmissionPlaintext(b []byte) (EntryFunctionPayload, error) {
	var b64 string
	if err := json.Unmarshal(b, &b64); err != nil {
		return EntryFunctionPayload{}, fmt.Errorf("submission plaintext: %w", err)
	}
	j, err := codec.Base64Decode(b64)
	if err != nil {
		return EntryFunctionPayload{}, fmt.Errorf("submission plaintext: %w", err)
	}
	var p EntryFunctionPayload
	if err := json.Unmarshal([]byte(j), &p); err != nil {
		return EntryFunctionPayload{}, fmt.Errorf("submission payload: %w", err)
	}
	return p, nil
}

// encodeParams serializes v as JSON and base64-encodes it.
func encodeParams(v any) (string, error) {
	j, err := marshalJSON(v)
	if err != nil {
		return "", err
	}
	return codec.Base64Encode(string(j)), nil
}

// decodeParams reverses encodeParams into out.
func decodeParams(s string, out any) error {
	j, err := codec.Base64Decode(s)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(j), out)
}

// marshalJSON is json.Marshal without HTML escaping, so output matches what a
// JavaScript peer would produce with JSON.stringify.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
