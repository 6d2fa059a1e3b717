// Package mnemonic generates, parses and derives keys from BIP-39 recovery
// phrases.
//
// Supported lengths are 12, 15, 18 and 24 words from the English wordlist.
// Keys are derived along the Ethereum path m/44'/60'/0'/0/0 with an empty
// BIP-39 passphrase, so a phrase produced here restores in any standard
// Ethereum wallet and vice versa.
//
// A Mnemonic only ever lives in memory. Nothing in this package writes to
// disk.
package mnemonic
