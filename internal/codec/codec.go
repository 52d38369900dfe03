package codec

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedInput is returned for odd-length or non-hex strings, invalid
// base64, and base64 that does not decode to UTF-8.
var ErrMalformedInput = errors.New("codec: malformed input")

// HexEncode returns the lowercase hex encoding of b without a prefix.
func HexEncode(b []byte) string { return hex.EncodeToString(b) }

// HexDecode decodes s, accepting an optional 0x prefix.
func HexDecode(s string) ([]byte, error) {
	clean := s
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		clean = clean[2:]
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("%w: odd hex length %d", ErrMalformedInput, len(clean))
	}
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return b, nil
}

// Base64Encode encodes the UTF-8 bytes of s with the padded standard alphabet.
func Base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Base64Decode decodes s and returns it as a string. Unpadded input is
// accepted; the decoded bytes must be valid UTF-8.
func Base64Decode(s string) (string, error) {
	enc := base64.StdEncoding
	if !strings.HasSuffix(s, "=") && len(s)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: decoded bytes are not UTF-8", ErrMalformedInput)
	}
	return string(b), nil
}
