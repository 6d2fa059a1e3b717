package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/session"
)

// ExportKeystore writes the wallet key as an encrypted keystore v3 file.
// The file is encrypted under the wallet password.
func ExportKeystore(ctx context.Context, cfg *config.Config, out string) {
	app := OpenOrExit(ctx, cfg)
	defer app.Close()

	if err := exportKeystore(ctx, app.Controller, NewConsole(), out); err != nil {
		app.Close()
		HandleError(err)
	}
}

func exportKeystore(ctx context.Context, ctl *session.Controller, con *Console, out string) error {
	state := ctl.State()
	if state.Kind == session.Disconnected {
		return session.ErrNoVaultFound
	}

	pw, err := con.GetPassword("Password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(pw)

	if state.Kind == session.Locked {
		if err := ctl.Unlock(ctx, string(pw)); err != nil {
			return err
		}
	}
	data, err := ctl.ExportKeystore(ctx, string(pw))
	if err != nil {
		return err
	}

	if out == "" {
		out = keystoreFileName(ctl.State().Address)
	}
	if out == "-" {
		con.Println(string(data))
		return nil
	}
	if _, err := os.Stat(out); err == nil {
		return fmt.Errorf("%s already exists", out)
	}
	if err := os.WriteFile(out, data, 0600); err != nil {
		return fmt.Errorf("failed to write keystore: %w", err)
	}
	con.Printf("✓ Keystore written to %s\n", out)
	return nil
}

func keystoreFileName(address string) string {
	return "keystore-" + strings.ToLower(strings.TrimPrefix(address, "0x")) + ".json"
}
