// Package crypto provides the cryptographic primitives behind the wallet vault.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from the password via a memory-hard KDF
//   - 12-byte random nonce per encryption operation
//   - Additional authenticated data so metadata cannot be swapped
//
// Key derivation supports:
//   - argon2id (default): 64 MiB, 3 passes, 1 lane
//   - scrypt: N=2^18, r=8, p=1 (same cost as Web3 keystore files)
//
// Each KDF carries its own 32-byte random salt and its parameters, both
// stored unencrypted next to the ciphertext.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
