// Package vault seals a wallet private key under a password.
//
// An EncryptedVault is the only form of wallet secret that is ever
// persisted. It carries the public address, the KDF name, salt and work
// factor, the AES-GCM nonce and the ciphertext. The address and KDF
// parameters are bound into the authenticated data, so editing any stored
// field makes Open fail.
//
// Open never distinguishes a wrong password from a damaged record: both
// return ErrDecryption.
//
// The package can also read and write Web3 Secret Storage (keystore v3)
// JSON for moving a key to or from other Ethereum wallets.
package vault
