package mnemonic

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// DerivationPath is the BIP-44 path of the single account, m/44'/60'/0'/0/0.
var DerivationPath = []uint32{
	bip32.FirstHardenedChild + 44,
	bip32.FirstHardenedChild + 60,
	bip32.FirstHardenedChild + 0,
	0,
	0,
}

// KeyMaterial is the account key pair derived from a mnemonic.
type KeyMaterial struct {
	Address    string
	PrivateKey []byte
}

// Wipe zeroes the private key bytes.
func (k *KeyMaterial) Wipe() {
	clear(k.PrivateKey)
	k.PrivateKey = nil
}

// DeriveKeyPair derives the account key pair for m. The result depends only
// on the phrase.
func DeriveKeyPair(m Mnemonic) (KeyMaterial, error) {
	if m.IsZero() {
		return KeyMaterial{}, fmt.Errorf("%w: empty phrase", ErrInvalidMnemonic)
	}

	seed := bip39.NewSeed(m.String(), "")
	defer clear(seed)

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("master key: %w", err)
	}
	for _, idx := range DerivationPath {
		if key, err = key.NewChildKey(idx); err != nil {
			return KeyMaterial{}, fmt.Errorf("derive child %d: %w", idx, err)
		}
	}

	address, err := AddressOf(key.Key)
	if err != nil {
		return KeyMaterial{}, err
	}

	return KeyMaterial{
		Address:    address,
		PrivateKey: append([]byte(nil), key.Key...),
	}, nil
}

// AddressOf returns the checksummed Ethereum address for a raw secp256k1
// private key.
func AddressOf(privateKey []byte) (string, error) {
	priv, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	return crypto.PubkeyToAddress(priv.PublicKey).Hex(), nil
}
