package cmd

import (
	"context"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/session"
)

// ChangePassword re-encrypts the wallet under a new password.
func ChangePassword(ctx context.Context, cfg *config.Config) {
	app := OpenOrExit(ctx, cfg)
	defer app.Close()

	if err := changePassword(ctx, app.Controller, NewConsole()); err != nil {
		app.Close()
		HandleError(err)
	}
}

func changePassword(ctx context.Context, ctl *session.Controller, con *Console) error {
	state := ctl.State()
	if state.Kind == session.Disconnected {
		return session.ErrNoVaultFound
	}

	current, err := con.GetPassword("Current password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(current)

	if state.Kind == session.Locked {
		if err := ctl.Unlock(ctx, string(current)); err != nil {
			return err
		}
	}

	// the new password is always typed, never taken from the environment
	next, err := con.ReadPassword("New password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(next)
	confirm, err := con.ReadPassword("Confirm password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(confirm)

	if err := ctl.ChangePassword(ctx, string(current), string(next), string(confirm)); err != nil {
		return err
	}
	con.Println("✓ Password changed")
	return nil
}
