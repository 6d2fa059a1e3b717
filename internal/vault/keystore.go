package vault

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/illarion/seedlock/internal/crypto"
)

// ExportKeystore writes privateKey as Web3 Secret Storage v3 JSON.
// Only scrypt parameters are honored; other KDFs fall back to the standard
// keystore cost.
func ExportKeystore(privateKey []byte, password string, params crypto.KDFParams) ([]byte, error) {
	priv, err := ethcrypto.ToECDSA(privateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	n, p := keystore.StandardScryptN, keystore.StandardScryptP
	if params.Name == crypto.KDFScrypt {
		n, p = params.N, params.P
	}

	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    ethcrypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}
	out, err := keystore.EncryptKey(key, password, n, p)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt keystore: %w", err)
	}
	return out, nil
}

// ImportKeystore decrypts keystore v3 JSON and returns the raw private key.
// A wrong password returns ErrDecryption.
func ImportKeystore(keyJSON []byte, password string) ([]byte, error) {
	key, err := keystore.DecryptKey(keyJSON, password)
	if errors.Is(err, keystore.ErrDecrypt) {
		return nil, ErrDecryption
	}
	if err != nil {
		return nil, fmt.Errorf("invalid keystore: %w", err)
	}
	return ethcrypto.FromECDSA(key.PrivateKey), nil
}
