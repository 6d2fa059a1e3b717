package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/vault"
)

const testAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

func testVault() *vault.EncryptedVault {
	params := crypto.KDFParams{Name: crypto.KDFArgon2id, Time: 1, MemoryKiB: 64, Threads: 1}
	return &vault.EncryptedVault{
		Version: vault.FormatVersion,
		Address: testAddress,
		KDF: vault.KDF{
			Name:      params.Name,
			Salt:      bytes.Repeat([]byte{7}, crypto.SaltSize),
			Time:      params.Time,
			MemoryKiB: params.MemoryKiB,
			Threads:   params.Threads,
		},
		Nonce:      bytes.Repeat([]byte{1}, crypto.NonceSize),
		Ciphertext: bytes.Repeat([]byte("SEALEDKEY!"), 5),
		Created:    time.Now().UTC().Truncate(time.Second),
	}
}

func openTestStore(t *testing.T) (*BoltStore, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "data", DefaultFileName)
	s, err := OpenBolt(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dbPath
}

func TestLoadEmpty(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := s.LockMetadata(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for metadata, got %v", err)
	}
	if err := s.Delete(ctx); err != nil {
		t.Errorf("Delete on empty store should succeed: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	v := testVault()

	if err := s.Save(ctx, v); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if got.Address != v.Address {
		t.Errorf("Address mismatch: got %s, want %s", got.Address, v.Address)
	}
	if !bytes.Equal(got.Ciphertext, v.Ciphertext) {
		t.Error("Ciphertext mismatch")
	}
	if !got.Created.Equal(v.Created) {
		t.Errorf("Created mismatch: got %v, want %v", got.Created, v.Created)
	}

	md, err := s.LockMetadata(ctx)
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	if md.Address != testAddress {
		t.Errorf("Metadata address mismatch: got %s", md.Address)
	}
	if md.Created.IsZero() || md.Modified.IsZero() {
		t.Error("Metadata timestamps should be set")
	}
}

func TestSaveKeepsCreated(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testVault()); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	first, err := s.LockMetadata(ctx)
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}

	if err := s.Save(ctx, testVault()); err != nil {
		t.Fatalf("Failed to save again: %v", err)
	}
	second, err := s.LockMetadata(ctx)
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	if !second.Created.Equal(first.Created) {
		t.Error("Created timestamp should survive re-save")
	}
	if second.Modified.Before(first.Modified) {
		t.Error("Modified timestamp should not go backwards")
	}
}

func TestPersistAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), DefaultFileName)
	ctx := context.Background()

	s, err := OpenBolt(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := s.Save(ctx, testVault()); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	s, err = OpenBolt(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer s.Close()

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load after reopen: %v", err)
	}
	if got.Address != testAddress {
		t.Errorf("Address mismatch: got %s", got.Address)
	}
}

func TestDeleteCompacts(t *testing.T) {
	s, dbPath := openTestStore(t)
	ctx := context.Background()
	v := testVault()
	encoded := []byte(base64.StdEncoding.EncodeToString(v.Ciphertext))

	if err := s.Save(ctx, v); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	raw, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("Failed to read db file: %v", err)
	}
	if !bytes.Contains(raw, encoded) {
		t.Fatal("Saved ciphertext should be in the db file")
	}

	if err := s.Delete(ctx); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.LockMetadata(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected no metadata after delete, got %v", err)
	}

	raw, err = os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("Failed to read db file: %v", err)
	}
	if bytes.Contains(raw, encoded) {
		t.Error("Ciphertext should not survive delete")
	}
	if _, err := os.Stat(dbPath + ".compact"); !os.IsNotExist(err) {
		t.Error("Temporary compact file should be removed")
	}

	// Store stays usable after compaction
	if err := s.Save(ctx, v); err != nil {
		t.Fatalf("Failed to save after delete: %v", err)
	}
}

func TestLoadCorruptRecord(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	v := testVault()
	v.Nonce = nil

	if err := s.Save(ctx, v); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, vault.ErrCorruptVault) {
		t.Errorf("Expected ErrCorruptVault, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	s, _ := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Save(ctx, testVault()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
