// Package testutil provides shared fakes for walletlink tests: a recording
// transport, a failing transport and key-value store, a result recorder for
// session sinks, and a preconfigured deep-link builder.
package testutil
