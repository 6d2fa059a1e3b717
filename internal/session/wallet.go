package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/ledger"
	"github.com/illarion/seedlock/internal/password"
	"github.com/illarion/seedlock/internal/vault"
)

// Balance returns the token balance of the unlocked wallet.
func (c *Controller) Balance(ctx context.Context) (ledger.Amount, error) {
	c.mu.Lock()
	if err := c.usable(Unlocked); err != nil {
		c.mu.Unlock()
		return ledger.Amount{}, err
	}
	address := c.address
	c.mu.Unlock()

	if c.ledger == nil {
		return ledger.Amount{}, ErrNoLedger
	}
	return c.ledger.Balance(ctx, address)
}

// ParseAmount parses a decimal amount with the ledger's token decimals.
func (c *Controller) ParseAmount(s string) (ledger.Amount, error) {
	if c.ledger == nil {
		return ledger.Amount{}, ErrNoLedger
	}
	return ledger.ParseAmount(s, c.ledger.Decimals())
}

// Transfer sends amount to the given address, signed with the in-memory
// key. Ledger errors are returned as is.
func (c *Controller) Transfer(ctx context.Context, to string, amount ledger.Amount) (ledger.Receipt, error) {
	if c.ledger == nil {
		return ledger.Receipt{}, ErrNoLedger
	}

	c.mu.Lock()
	if err := c.usable(Unlocked); err != nil {
		c.mu.Unlock()
		return ledger.Receipt{}, err
	}
	key := append([]byte(nil), c.key...)
	c.mu.Unlock()
	defer crypto.ClearBytes(key)

	receipt, err := c.ledger.Transfer(ctx, key, to, amount)
	if err != nil {
		return ledger.Receipt{}, err
	}
	c.emit(ctx, EventTransferSubmitted, "tx", receipt.TxHash, "to", receipt.To, "amount", amount.String())
	return receipt, nil
}

// ExportKeystore re-checks pw against the stored vault and returns the key
// as keystore v3 JSON encrypted under the same password.
func (c *Controller) ExportKeystore(ctx context.Context, pw string) ([]byte, error) {
	address, key, gen, err := c.snapshotKey()
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	if err := c.verifyStored(ctx, pw); err != nil {
		return nil, err
	}
	out, err := vault.ExportKeystore(key, pw, c.ksKDF)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	changed := c.changedSince(gen)
	c.mu.Unlock()
	if changed {
		return nil, ErrSessionChanged
	}
	c.emit(ctx, EventKeystoreExported, "address", address)
	return out, nil
}

// ChangePassword re-seals the in-memory key under a new password after
// checking the current one.
func (c *Controller) ChangePassword(ctx context.Context, current, next, confirm string) error {
	address, key, gen, err := c.snapshotKey()
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(key)

	if err := password.Check(next, confirm); err != nil {
		return err
	}

	if err := c.verifyStored(ctx, current); err != nil {
		return err
	}
	pwBytes := []byte(next)
	v, err := vault.Seal(address, key, pwBytes, c.kdf)
	crypto.ClearBytes(pwBytes)
	if err != nil {
		return fmt.Errorf("failed to seal wallet: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.changedSince(gen) {
		return ErrSessionChanged
	}
	if err := c.store.Save(ctx, v); err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	c.emit(ctx, EventPasswordChanged, "address", address)
	return nil
}

// snapshotKey copies the unlocked key so slow KDF work can run without
// holding c.mu.
func (c *Controller) snapshotKey() (string, []byte, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(Unlocked); err != nil {
		return "", nil, 0, err
	}
	return c.address, append([]byte(nil), c.key...), c.gen, nil
}

// changedSince reports whether the session left the Unlocked state seen at
// gen. Caller holds c.mu.
func (c *Controller) changedSince(gen uint64) bool {
	return c.gen != gen || c.kind != Unlocked || c.closed
}

// verifyStored opens the stored vault with pw.
func (c *Controller) verifyStored(ctx context.Context, pw string) error {
	if err := c.allowAttempt(); err != nil {
		return err
	}
	v, err := c.store.Load(ctx)
	if errors.Is(err, vault.ErrCorruptVault) {
		return vault.ErrDecryption
	}
	if err != nil {
		return fmt.Errorf("failed to load wallet: %w", err)
	}

	pwBytes := []byte(pw)
	defer crypto.ClearBytes(pwBytes)
	key, err := vault.Open(v, pwBytes)
	if err != nil {
		return err
	}
	crypto.ClearBytes(key)
	return nil
}
