// Package store provides persistence for walletlink's pairing material.
//
// It contains two layers:
//   - Key-value backends implementing domain.KVStore: FileKV keeps a single
//     JSON map on disk (optionally sealed with a passphrase), MemoryKV keeps
//     it in process memory.
//   - KeyStore, which implements domain.KeyStore on top of any KVStore and
//     stores the local key pair and the shared secret as hex strings under
//     fixed keys.
//
// All methods are concurrency-safe via internal locking. KeyStore never hides
// failures: absent entries return domain.ErrNotFound and backend or decoding
// problems wrap domain.ErrStorageUnavailable, leaving the degrade-to-absent
// policy to the services.
package store
