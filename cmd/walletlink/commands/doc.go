// Package commands defines the walletlink CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - connect       Pair with the wallet
//   - submit        Send a value to the wallet, pairing first if needed
//   - route         Feed a callback link to the session (or the inbox)
//   - disconnect    Forget the pairing
//   - status        Print the session state
//   - fingerprint   Print the fingerprint of our encryption key
//   - listen        Stay up and route callbacks from the inbox (and stdin)
//   - serve         Run the local HTTP bridge for a platform shim
//
// # Implementation
//
// The root command loads config.yaml from the home directory, prompts for
// the storage passphrase when the key file is encrypted, and builds the
// dependency graph (stores, transport, services, router) before any
// subcommand runs. One-shot commands keep no state between runs except what
// the key store persists, so a value submitted before pairing is only sent
// if the same process receives the pairing callback; use listen or serve
// for that.
package commands
