// Package pairing runs the connect handshake with the wallet.
//
// It owns the local key pair and the shared secret. Start loads or creates
// the key pair (never replacing one already loaded, so the wallet recognises
// a returning app) and opens a connect link. HandleCallback derives the
// shared secret from the wallet's public key and persists it.
//
// State moves Unpaired -> Pairing -> Paired, and back to Unpaired on a failed
// callback or Forget. Storage failures degrade: a failed read is treated as
// "absent" and a failed write is logged, since the in-memory state stays
// authoritative for the current process.
package pairing
