// Package keyring wraps the OS keyring for seedlock.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "seedlock"

// ErrNotFound is returned when the profile has no secret.
var ErrNotFound = keyring.ErrNotFound

// SaveVault stores an encoded vault under profile.
func SaveVault(profile string, data string) error {
	return keyring.Set(serviceName, profile, data)
}

// GetVault retrieves the encoded vault for profile.
func GetVault(profile string) (string, error) {
	return keyring.Get(serviceName, profile)
}

// DeleteVault removes the vault for profile. A missing entry is not an error.
func DeleteVault(profile string) error {
	err := keyring.Delete(serviceName, profile)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
