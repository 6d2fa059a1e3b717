package session

import "errors"

var (
	ErrInvalidState      = errors.New("operation not allowed in current session state")
	ErrBackupNotVerified = errors.New("recovery phrase backup not verified")
	ErrNoVaultFound      = errors.New("no wallet found")
	ErrTooManyAttempts   = errors.New("too many attempts, try again later")
	ErrNoLedger          = errors.New("no ledger configured")
	ErrRegistration      = errors.New("user registration failed")
	ErrSessionChanged    = errors.New("session changed during operation")
)
