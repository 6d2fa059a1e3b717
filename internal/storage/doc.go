// Package storage persists the encrypted wallet vault.
//
// Two backends implement Store:
//   - BoltStore: a single BBolt file with a vault bucket (the sealed record)
//     and a meta bucket (address, schema version, timestamps)
//   - KeyringStore: the sealed record as one OS keyring secret
//
// Only EncryptedVault records are written. The meta bucket is unencrypted so
// the lock screen can show the address without a password.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
