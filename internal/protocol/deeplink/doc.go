// Package deeplink implements the wallet deep-link wire format.
//
// # Outbound (app -> wallet)
//
//	<wallet>://api/v1/connect?data=<base64 JSON>
//	    {appInfo, redirectLink: "<app>://api/v1/connect", dappEncryptionPublicKey}
//
//	<wallet>://api/v1/signAndSubmit?data=<base64 JSON>
//	    {appInfo, payload: <hex ciphertext>, redirectLink: "<app>://api/v1/response",
//	     dappEncryptionPublicKey, nonce: <hex>}
//
// The submit ciphertext seals the JSON string literal of the base64 of the
// entry-function payload JSON, which is what the wallet decodes.
//
// # Inbound (wallet -> app)
//
//	<app>://api/v1/{connect|response}?response=<status>&data=<base64 JSON>
//
// Query values are percent-decoded only; '+' is kept literally so unescaped
// base64 survives. A topic containing "connect" is a pairing callback, one
// containing "response" is a submission callback.
//
// Wallet-side helpers (ParseRequest, PairingApproval, CallbackURL) exist for
// the simulated wallet used in development and tests.
package deeplink
