package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/illarion/seedlock/internal/vault"
)

// Bucket names
var (
	VaultBucket = []byte("vault") // Sealed vault record
	MetaBucket  = []byte("meta")  // Address, schema version, timestamps - unencrypted
)

// Keys
var (
	KeyRecord    = []byte("record")
	MetaVersion  = []byte("version")
	MetaAddress  = []byte("address")
	MetaCreated  = []byte("created")
	MetaModified = []byte("modified")
)

// DefaultFileName is the database file inside the data directory.
const DefaultFileName = "wallet.db"

// BoltStore keeps the vault in a BBolt database file.
type BoltStore struct {
	mu sync.Mutex
	db *bolt.DB
}

var _ Store = (*BoltStore)(nil)

func openDB(path string) (*bolt.DB, error) {
	return bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Path returns the database file path.
func (s *BoltStore) Path() string {
	return s.db.Path()
}

// Close closes the database
func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Load reads the sealed vault record.
func (s *BoltStore) Load(ctx context.Context) (*vault.EncryptedVault, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(VaultBucket)
		if b == nil {
			return ErrNotFound
		}
		raw := b.Get(KeyRecord)
		if raw == nil {
			return ErrNotFound
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vault.Unmarshal(data)
}

// Save writes v and refreshes the lock-screen metadata in one transaction.
func (s *BoltStore) Save(ctx context.Context, v *vault.EncryptedVault) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := vault.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode vault: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{VaultBucket, MetaBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		if err := tx.Bucket(VaultBucket).Put(KeyRecord, data); err != nil {
			return err
		}

		meta := tx.Bucket(MetaBucket)
		if err := meta.Put(MetaVersion, []byte(SchemaVersion)); err != nil {
			return err
		}
		if err := meta.Put(MetaAddress, []byte(v.Address)); err != nil {
			return err
		}

		now, _ := time.Now().MarshalBinary()
		if meta.Get(MetaCreated) == nil {
			if err := meta.Put(MetaCreated, now); err != nil {
				return err
			}
		}
		return meta.Put(MetaModified, now)
	})
}

// Delete drops both buckets and compacts the file so no ciphertext pages
// are left behind.
func (s *BoltStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{VaultBucket, MetaBucket} {
			if tx.Bucket(bucket) == nil {
				continue
			}
			if err := tx.DeleteBucket(bucket); err != nil {
				return fmt.Errorf("failed to delete bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.compact()
}

// LockMetadata reads the unencrypted meta bucket.
func (s *BoltStore) LockMetadata(ctx context.Context) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var md Metadata
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(MetaBucket)
		if meta == nil {
			return ErrNotFound
		}
		addr := meta.Get(MetaAddress)
		if addr == nil {
			return ErrNotFound
		}
		md.Address = string(addr)
		if data := meta.Get(MetaCreated); data != nil {
			if err := md.Created.UnmarshalBinary(data); err != nil {
				return fmt.Errorf("invalid created time: %w", err)
			}
		}
		if data := meta.Get(MetaModified); data != nil {
			if err := md.Modified.UnmarshalBinary(data); err != nil {
				return fmt.Errorf("invalid modified time: %w", err)
			}
		}
		return nil
	})
	return md, err
}

// compact rewrites the database into a fresh file, dropping free pages.
// Caller holds s.mu.
func (s *BoltStore) compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := openDB(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// Copy all buckets
	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})
	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}
	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	if renameErr := os.Rename(tmpPath, srcPath); renameErr != nil {
		os.Remove(tmpPath)
		if s.db, err = openDB(srcPath); err != nil {
			return fmt.Errorf("failed to reopen database: %w", err)
		}
		return fmt.Errorf("failed to replace database: %w", renameErr)
	}

	s.db, err = openDB(srcPath)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	return nil
}
