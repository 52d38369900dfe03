// Package codec converts between bytes and the text encodings used on the
// deep-link wire: lowercase hex (keys, nonces, ciphertext) and standard
// base64 over UTF-8 (JSON parameters).
//
// All functions are pure. Malformed input fails with ErrMalformedInput rather
// than being truncated.
package codec
