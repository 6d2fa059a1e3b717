package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/illarion/seedlock/internal/keyring"
	"github.com/illarion/seedlock/internal/vault"
)

// KeyringStore keeps the sealed vault in the OS keyring under a profile name.
type KeyringStore struct {
	profile string
}

var _ Store = (*KeyringStore)(nil)

// NewKeyringStore returns a store for profile.
func NewKeyringStore(profile string) *KeyringStore {
	return &KeyringStore{profile: profile}
}

func (s *KeyringStore) Load(ctx context.Context) (*vault.EncryptedVault, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := keyring.GetVault(s.profile)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}
	return vault.Unmarshal([]byte(data))
}

func (s *KeyringStore) Save(ctx context.Context, v *vault.EncryptedVault) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := vault.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode vault: %w", err)
	}
	if err := keyring.SaveVault(s.profile, string(data)); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (s *KeyringStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return keyring.DeleteVault(s.profile)
}

// LockMetadata decodes the stored record; the keyring has no separate
// metadata entry.
func (s *KeyringStore) LockMetadata(ctx context.Context) (Metadata, error) {
	v, err := s.Load(ctx)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{Address: v.Address, Created: v.Created, Modified: v.Created}, nil
}

func (s *KeyringStore) Close() error { return nil }
