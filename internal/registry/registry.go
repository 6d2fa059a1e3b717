// Package registry links wallet addresses to user records.
//
// RegisterOrFetchUser is idempotent: the first call for an address creates
// a user, later calls return the same record. A user whose record is at
// most NewUserWindow old counts as newly registered.
package registry

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultReputation is the score assigned to new users.
const DefaultReputation = 87

// NewUserWindow is how long after creation a user counts as new.
const NewUserWindow = 5 * time.Second

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrUnavailable    = errors.New("user registry unavailable")
)

// User is a registry record.
type User struct {
	ID              string    `json:"id"`
	Address         string    `json:"wallet_address"`
	CreatedAt       time.Time `json:"created_at"`
	ReputationScore int       `json:"reputation_score"`
}

// IsNew reports whether the user was created within NewUserWindow of now.
func (u User) IsNew(now time.Time) bool {
	age := now.Sub(u.CreatedAt)
	return age >= 0 && age <= NewUserWindow
}

// Registry registers wallet addresses.
type Registry interface {
	RegisterOrFetchUser(ctx context.Context, address string) (User, error)
}

// NormalizeAddress validates a 0x-prefixed 40 hex digit address and returns
// its checksummed form.
func NormalizeAddress(address string) (string, error) {
	if len(address) != 42 || !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}
	return common.HexToAddress(address).Hex(), nil
}
