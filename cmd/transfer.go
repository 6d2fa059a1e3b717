package cmd

import (
	"context"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/session"
)

// Transfer sends tokens from the wallet to another address.
func Transfer(ctx context.Context, cfg *config.Config, to, amount string, yes bool) {
	app := OpenOrExit(ctx, cfg)
	defer app.Close()

	if err := transfer(ctx, app.Controller, NewConsole(), to, amount, yes); err != nil {
		app.Close()
		HandleError(err)
	}
}

func transfer(ctx context.Context, ctl *session.Controller, con *Console, to, value string, yes bool) error {
	amount, err := ctl.ParseAmount(value)
	if err != nil {
		return err
	}
	if err := ensureUnlocked(ctx, ctl, con); err != nil {
		return err
	}

	if !yes {
		con.Printf("Send %s to %s\n", amount, to)
		if !con.Confirm("Proceed?") {
			return errCancelled
		}
	}

	receipt, err := ctl.Transfer(ctx, to, amount)
	if err != nil {
		return err
	}
	con.Printf("✓ Submitted %s\n", receipt.TxHash)
	return nil
}
