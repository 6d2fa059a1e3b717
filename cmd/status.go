package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/session"
)

// Status shows the wallet state without asking for a password.
func Status(ctx context.Context, cfg *config.Config) {
	app := OpenOrExit(ctx, cfg)
	defer app.Close()

	if err := showStatus(ctx, cfg, app.Controller, NewConsole()); err != nil {
		app.Close()
		HandleError(err)
	}
}

func showStatus(ctx context.Context, cfg *config.Config, ctl *session.Controller, con *Console) error {
	state := ctl.State()

	con.Printf("Profile: %s\n", cfg.Profile)
	con.Printf("Store: %s\n", cfg.StoreBackend)
	con.Printf("State: %s\n", state.Kind)
	if state.Onboarding {
		con.Println("Onboarding: waiting for backup confirmation")
	}
	if state.Kind == session.Disconnected {
		con.Println()
		con.Println("No wallet. Run 'seedlock create' or 'seedlock import'.")
		return nil
	}

	md, err := ctl.LockMetadata(ctx)
	if errors.Is(err, session.ErrNoVaultFound) {
		return nil
	}
	if err != nil {
		return err
	}
	con.Printf("Address: %s\n", md.Address)
	if !md.Created.IsZero() {
		con.Printf("Created: %s\n", md.Created.Local().Format(time.DateTime))
	}
	if !md.Modified.IsZero() && !md.Modified.Equal(md.Created) {
		con.Printf("Modified: %s\n", md.Modified.Local().Format(time.DateTime))
	}
	con.Printf("Auto-lock: %s\n", ctl.LockTimeout())
	return nil
}
