package vault

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/illarion/seedlock/internal/crypto"
)

// FormatVersion is the record layout version written by Seal.
const FormatVersion = 1

var (
	ErrDecryption   = errors.New("unable to decrypt wallet")
	ErrCorruptVault = fmt.Errorf("%w: corrupt vault record", ErrDecryption)
)

// KDF is the stored form of the password KDF.
type KDF struct {
	Name      string `json:"name"`
	Salt      []byte `json:"salt"`
	Time      uint32 `json:"time,omitempty"`
	MemoryKiB uint32 `json:"memoryKiB,omitempty"`
	Threads   uint8  `json:"threads,omitempty"`
	N         int    `json:"n,omitempty"`
	R         int    `json:"r,omitempty"`
	P         int    `json:"p,omitempty"`
}

func kdfFrom(k *crypto.KDF) KDF {
	return KDF{
		Name:      k.Params.Name,
		Salt:      append([]byte(nil), k.Salt...),
		Time:      k.Params.Time,
		MemoryKiB: k.Params.MemoryKiB,
		Threads:   k.Params.Threads,
		N:         k.Params.N,
		R:         k.Params.R,
		P:         k.Params.P,
	}
}

// Params returns the work-factor parameters.
func (k KDF) Params() crypto.KDFParams {
	return crypto.KDFParams{
		Name:      k.Name,
		Time:      k.Time,
		MemoryKiB: k.MemoryKiB,
		Threads:   k.Threads,
		N:         k.N,
		R:         k.R,
		P:         k.P,
	}
}

// EncryptedVault is a password-sealed secret, normally a private key.
type EncryptedVault struct {
	Version    int       `json:"version"`
	Address    string    `json:"address"`
	KDF        KDF       `json:"kdf"`
	Nonce      []byte    `json:"nonce"`
	Ciphertext []byte    `json:"ciphertext"`
	Created    time.Time `json:"created"`
}

// LockInfo is the part of a vault readable without a password.
type LockInfo struct {
	Address string `json:"address"`
}

// LockInfo returns the lock-screen metadata.
func (v *EncryptedVault) LockInfo() LockInfo {
	return LockInfo{Address: v.Address}
}

// aad binds every stored field that affects decryption.
func (v *EncryptedVault) aad() []byte {
	k := v.KDF
	return fmt.Appendf(nil, "seedlock/v%d|%s|%s|%d|%d|%d|%d|%d|%d|%s",
		v.Version, v.Address, k.Name, k.Time, k.MemoryKiB, k.Threads, k.N, k.R, k.P, hex.EncodeToString(k.Salt))
}

// Seal encrypts secret under password with a fresh salt and nonce. address
// is stored in the clear for the lock screen and bound into the AAD.
func Seal(address string, secret, password []byte, params crypto.KDFParams) (*EncryptedVault, error) {
	if address == "" {
		return nil, errors.New("address is required")
	}

	kdf, err := crypto.NewKDF(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create KDF: %w", err)
	}

	key, err := kdf.DeriveKey(password)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	enc := crypto.NewEncryptor(key)
	defer enc.Destroy()

	v := &EncryptedVault{
		Version: FormatVersion,
		Address: address,
		KDF:     kdfFrom(kdf),
		Created: time.Now().UTC(),
	}

	v.Nonce, v.Ciphertext, err = enc.Seal(secret, v.aad())
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt key: %w", err)
	}
	return v, nil
}

// Open decrypts the sealed secret. Every failure returns ErrDecryption.
func Open(v *EncryptedVault, password []byte) ([]byte, error) {
	if v == nil || v.Version != FormatVersion {
		return nil, ErrDecryption
	}

	kdf := &crypto.KDF{Salt: v.KDF.Salt, Params: v.KDF.Params()}
	key, err := kdf.DeriveKey(password)
	if err != nil {
		return nil, ErrDecryption
	}
	enc := crypto.NewEncryptor(key)
	defer enc.Destroy()

	secret, err := enc.Open(v.Nonce, v.Ciphertext, v.aad())
	if err != nil {
		return nil, ErrDecryption
	}
	return secret, nil
}

// Marshal encodes v as JSON.
func Marshal(v *EncryptedVault) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes a vault record. Malformed input returns ErrCorruptVault.
func Unmarshal(data []byte) (*EncryptedVault, error) {
	var v EncryptedVault
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, ErrCorruptVault
	}
	if v.Version != FormatVersion || v.Address == "" || len(v.Nonce) == 0 || len(v.Ciphertext) == 0 {
		return nil, ErrCorruptVault
	}
	if err := v.KDF.Params().Validate(); err != nil {
		return nil, ErrCorruptVault
	}
	return &v, nil
}
