// Package session owns the wallet session for the lifetime of the app.
//
// A Session ties the pairing and submission services together, holds the one
// pending value that waits for pairing to finish, and exposes the result
// sinks the UI layer subscribes to. Every protocol step runs under one lock,
// so inbound callbacks and UI calls never interleave; sinks are invoked after
// the lock is released so a sink may call back into the session.
//
// Failure policy (policy.go):
//   - Rejected and malformed pairing callbacks are both reported as
//     approved=false.
//   - A transport failure during a send triggered by a callback is reported
//     to the submission sink with domain.WalletUnavailableMessage; direct
//     callers of Connect and Submit get the error itself.
//   - Storage failures never reach the sinks; they are logged.
//   - The pending value is memory-only and is lost on restart.
package session
