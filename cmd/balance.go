package cmd

import (
	"context"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/session"
)

// Balance prints the token balance of the wallet.
func Balance(ctx context.Context, cfg *config.Config) {
	app := OpenOrExit(ctx, cfg)
	defer app.Close()

	if err := balance(ctx, app.Controller, NewConsole()); err != nil {
		app.Close()
		HandleError(err)
	}
}

func balance(ctx context.Context, ctl *session.Controller, con *Console) error {
	if err := ensureUnlocked(ctx, ctl, con); err != nil {
		return err
	}
	amount, err := ctl.Balance(ctx)
	if err != nil {
		return err
	}
	con.Printf("Balance: %s\n", amount)
	return nil
}
