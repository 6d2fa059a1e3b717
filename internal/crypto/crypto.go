package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"
)

const (
	SaltSize  = 32 // Salt size in bytes
	KeySize   = 32 // AES-256 key size
	NonceSize = 12 // GCM nonce size
	TagSize   = 16 // GCM authentication tag size
)

// KDF algorithm names as stored in vault records.
const (
	KDFArgon2id = "argon2id"
	KDFScrypt   = "scrypt"
)

// Upper bounds accepted when reading parameters back from storage.
const (
	maxArgonMemoryKiB = 1 << 21 // 2 GiB
	maxArgonTime      = 64
	maxScryptN        = 1 << 22
)

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrInvalidParams     = errors.New("invalid kdf parameters")
)

// KDFParams describes the work factor of a password KDF.
// Time/MemoryKiB/Threads apply to argon2id, N/R/P to scrypt.
type KDFParams struct {
	Name      string
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	N         int
	R         int
	P         int
}

// DefaultArgon2id returns the default argon2id cost.
func DefaultArgon2id() KDFParams {
	return KDFParams{
		Name:      KDFArgon2id,
		Time:      3,
		MemoryKiB: 64 * 1024,
		Threads:   1,
	}
}

// DefaultScrypt returns the scrypt cost used by standard Web3 keystores.
func DefaultScrypt() KDFParams {
	return KDFParams{
		Name: KDFScrypt,
		N:    1 << 18,
		R:    8,
		P:    1,
	}
}

// ParamsByName returns the default parameters for a KDF name.
func ParamsByName(name string) (KDFParams, error) {
	switch name {
	case KDFArgon2id, "":
		return DefaultArgon2id(), nil
	case KDFScrypt:
		return DefaultScrypt(), nil
	default:
		return KDFParams{}, fmt.Errorf("%w: unknown kdf %q", ErrInvalidParams, name)
	}
}

// Validate rejects parameters that are unknown, degenerate, or large enough
// to exhaust memory when read from an untrusted record.
func (p KDFParams) Validate() error {
	switch p.Name {
	case KDFArgon2id:
		if p.Time == 0 || p.Time > maxArgonTime {
			return fmt.Errorf("%w: argon2id time %d", ErrInvalidParams, p.Time)
		}
		if p.MemoryKiB < 8*uint32(max(p.Threads, 1)) || p.MemoryKiB > maxArgonMemoryKiB {
			return fmt.Errorf("%w: argon2id memory %d KiB", ErrInvalidParams, p.MemoryKiB)
		}
		if p.Threads == 0 {
			return fmt.Errorf("%w: argon2id threads must be positive", ErrInvalidParams)
		}
	case KDFScrypt:
		if p.N <= 1 || p.N&(p.N-1) != 0 || p.N > maxScryptN {
			return fmt.Errorf("%w: scrypt N %d", ErrInvalidParams, p.N)
		}
		if p.R <= 0 || p.P <= 0 || p.R*p.P >= 1<<30 {
			return fmt.Errorf("%w: scrypt r=%d p=%d", ErrInvalidParams, p.R, p.P)
		}
	default:
		return fmt.Errorf("%w: unknown kdf %q", ErrInvalidParams, p.Name)
	}
	return nil
}

// KDF handles key derivation from passwords
type KDF struct {
	Salt   []byte
	Params KDFParams
}

// NewKDF creates a new KDF with a random salt
func NewKDF(params KDFParams) (*KDF, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:   salt,
		Params: params,
	}, nil
}

// DeriveKey derives an encryption key from a password
func (k *KDF) DeriveKey(password []byte) ([]byte, error) {
	if err := k.Params.Validate(); err != nil {
		return nil, err
	}
	if len(k.Salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrInvalidParams)
	}

	switch k.Params.Name {
	case KDFScrypt:
		key, err := scrypt.Key(password, k.Salt, k.Params.N, k.Params.R, k.Params.P, KeySize)
		if err != nil {
			return nil, fmt.Errorf("scrypt: %w", err)
		}
		return key, nil
	default:
		return argon2.IDKey(password, k.Salt, k.Params.Time, k.Params.MemoryKiB, k.Params.Threads, KeySize), nil
	}
}

// Encryptor provides authenticated encryption
type Encryptor struct {
	key []byte
}

// NewEncryptor creates a new encryptor with the given key
func NewEncryptor(key []byte) *Encryptor {
	return &Encryptor{
		key: key,
	}
}

func (e *Encryptor) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext using AES-256-GCM under a fresh random nonce.
// aad is authenticated but not encrypted.
func (e *Encryptor) Seal(plaintext, aad []byte) (nonce, ciphertext []byte, err error) {
	gcm, err := e.aead()
	if err != nil {
		return nil, nil, err
	}

	nonce, err = GenerateRandom(NonceSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return nonce, gcm.Seal(nil, nonce, plaintext, aad), nil
}

// Open decrypts and verifies ciphertext produced by Seal.
func (e *Encryptor) Open(nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != NonceSize || len(ciphertext) < TagSize {
		return nil, ErrInvalidCiphertext
	}

	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}

// Destroy clears the encryptor's key from memory
func (e *Encryptor) Destroy() {
	ClearBytes(e.key)
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
