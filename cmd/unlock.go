package cmd

import (
	"context"
	"errors"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/session"
	"github.com/illarion/seedlock/internal/vault"
)

// Unlock checks the wallet password and prints the wallet address.
func Unlock(ctx context.Context, cfg *config.Config) {
	app := OpenOrExit(ctx, cfg)
	defer app.Close()

	con := NewConsole()
	if err := ensureUnlocked(ctx, app.Controller, con); err != nil {
		app.Close()
		HandleError(err)
	}
	con.Printf("✓ Unlocked %s\n", app.Controller.State().Address)
}

// ensureUnlocked prompts for the password unless the session is already
// unlocked. Wrong passwords are retried a few times from a terminal.
func ensureUnlocked(ctx context.Context, ctl *session.Controller, con *Console) error {
	switch ctl.State().Kind {
	case session.Unlocked:
		return nil
	case session.Disconnected:
		return session.ErrNoVaultFound
	}

	var err error
	for attempt := 0; attempt < maxPasswordAttempts; attempt++ {
		var pw []byte
		pw, err = con.GetPassword("Password: ")
		if err != nil {
			return err
		}
		err = ctl.Unlock(ctx, string(pw))
		crypto.ClearBytes(pw)

		if !errors.Is(err, vault.ErrDecryption) || con.envPassword() != nil {
			return err
		}
		con.Println("✗ Wrong password")
	}
	return err
}

// lockSession locks the session, wiping the key from memory.
func lockSession(ctx context.Context, ctl *session.Controller, con *Console) error {
	if err := ctl.Lock(ctx); err != nil {
		return err
	}
	con.Println("✓ Locked")
	return nil
}
