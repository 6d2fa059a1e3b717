package storage

import (
	"context"
	"errors"

	"github.com/illarion/seedlock/internal/vault"
)

// ErrNotFound is returned when no vault has been persisted.
var ErrNotFound = errors.New("no wallet vault stored")

// Store persists at most one encrypted vault.
type Store interface {
	// Load returns the stored vault or ErrNotFound.
	Load(ctx context.Context) (*vault.EncryptedVault, error)
	// Save replaces the stored vault.
	Save(ctx context.Context, v *vault.EncryptedVault) error
	// Delete removes the vault. Deleting an empty store is not an error.
	Delete(ctx context.Context) error
	// LockMetadata returns the public part of the stored vault.
	LockMetadata(ctx context.Context) (Metadata, error)
	Close() error
}
