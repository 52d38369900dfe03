// Package walletsim is an in-process stand-in for the wallet app.
//
// It answers connect and signAndSubmit links the way the real wallet does,
// decrypting submissions so callers can inspect what was sent. The mock
// wallet server and the package tests drive it.
package walletsim
