// Package bridge exposes a session over local HTTP so a platform shim (a
// mobile host app, a browser extension, a test harness) can drive it.
//
// Routes:
//
//	POST   /v1/links               body is a raw callback link; queued for the router
//	POST   /v1/connect             start pairing
//	POST   /v1/submissions/{value} submit a value (pairs first if needed)
//	DELETE /v1/connection          forget the pairing
//	GET    /v1/status              session snapshot
//	GET    /v1/results             results delivered to the sinks, oldest first
//	GET    /health                 liveness
//
// The server binds to loopback by default; it has no authentication.
package bridge
