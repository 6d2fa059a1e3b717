package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLiteRegistry keeps users in a local SQLite database.
type SQLiteRegistry struct {
	db  *sql.DB
	now func() time.Time
}

var _ Registry = (*SQLiteRegistry)(nil)

// Option configures a SQLiteRegistry.
type Option func(*SQLiteRegistry)

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRegistry) { r.now = now }
}

// OpenSQLite opens the database file at path and runs migrations.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteRegistry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(1)
	r, err := NewSQLiteRegistry(ctx, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// NewSQLiteRegistry wraps an open database and runs migrations.
func NewSQLiteRegistry(ctx context.Context, db *sql.DB, opts ...Option) (*SQLiteRegistry, error) {
	if err := Migrate(ctx, db); err != nil {
		return nil, err
	}
	r := &SQLiteRegistry{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}

func (r *SQLiteRegistry) RegisterOrFetchUser(ctx context.Context, address string) (User, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return User{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, wallet_address, reputation_score, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(wallet_address) DO NOTHING
	`, uuid.NewString(), addr, DefaultReputation, r.now().UnixMilli())
	if err != nil {
		return User{}, fmt.Errorf("failed to register user %s: %w", addr, err)
	}

	return r.find(ctx, addr)
}

func (r *SQLiteRegistry) find(ctx context.Context, addr string) (User, error) {
	var (
		u       User
		created int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, wallet_address, reputation_score, created_at
		FROM users WHERE wallet_address = ?
	`, addr).Scan(&u.ID, &u.Address, &u.ReputationScore, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %s vanished after insert", addr)
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get user %s: %w", addr, err)
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	return u, nil
}
