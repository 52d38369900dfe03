// Package main runs a simulated wallet reachable over HTTP, for development
// and tests on machines without the wallet app installed. Point walletlink
// at it with transport.kind: http and transport.bridge_url.
//
// HTTP API
//
//	POST /open { "url": "<wallet link>" }
//	    Answer a connect or signAndSubmit link as the wallet would. The reply
//	    is { "callback": "<app link>" }; the caller routes it back to the app.
//
//	GET /submissions
//	    Decrypted submissions received so far.
//
//	PUT /reject { "reject": true }
//	    Approve (false) or decline (true) subsequent requests.
//
//	GET /health
//
// Behaviour
//
//   - A fresh wallet key pair is generated at start; state is lost on exit.
//   - Links for another scheme or an unknown path get 400.
//   - The default listen address is 127.0.0.1:8766.
package main
