package cmd

import (
	"context"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/session"
)

// Disconnect deletes the stored wallet after confirmation.
func Disconnect(ctx context.Context, cfg *config.Config, force bool) {
	app := OpenOrExit(ctx, cfg)
	defer app.Close()

	if err := disconnect(ctx, app.Controller, NewConsole(), force); err != nil {
		app.Close()
		HandleError(err)
	}
}

func disconnect(ctx context.Context, ctl *session.Controller, con *Console, force bool) error {
	state := ctl.State()
	if state.Kind == session.Disconnected && !state.Onboarding {
		con.Println("No wallet to disconnect")
		return nil
	}
	if !force {
		con.Println("This deletes the encrypted wallet from this device.")
		con.Println("Without your recovery phrase the funds cannot be recovered.")
		if !con.Confirm("Disconnect wallet?") {
			return errCancelled
		}
	}
	if err := ctl.Disconnect(ctx); err != nil {
		return err
	}
	con.Println("✓ Wallet disconnected")
	return nil
}
