package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/mnemonic"
	"github.com/illarion/seedlock/internal/session"
)

// Import restores a wallet from an existing recovery phrase, or from a
// keystore v3 file when keystorePath is set.
func Import(ctx context.Context, cfg *config.Config, keystorePath string) {
	app := OpenOrExit(ctx, cfg)
	defer app.Close()

	con := NewConsole()
	var err error
	if keystorePath != "" {
		err = importKeystore(ctx, app.Controller, con, keystorePath)
	} else {
		err = importWallet(ctx, app.Controller, con)
	}
	if err != nil {
		app.Close()
		HandleError(err)
	}
}

func importWallet(ctx context.Context, ctl *session.Controller, con *Console) error {
	if ctl.State().Kind != session.Disconnected {
		return session.ErrInvalidState
	}

	var words []string
	for attempt := 0; ; attempt++ {
		phrase, err := con.ReadPassword("Recovery phrase: ")
		if err != nil {
			return err
		}
		words = strings.Fields(strings.ToLower(string(phrase)))
		crypto.ClearBytes(phrase)

		_, err = mnemonic.Parse(words)
		if err == nil {
			break
		}
		if attempt+1 == maxPasswordAttempts {
			return err
		}
		msg, _ := describeError(err)
		con.Printf("✗ %s\n", msg)
	}

	login, err := withNewPassword(con, func(pw, confirm string) (session.Login, error) {
		return ctl.ImportWallet(ctx, words, pw, confirm)
	})
	if err != nil {
		if err := warnRegistration(con, err); err != nil {
			return err
		}
	}
	printLogin(con, login)
	return nil
}

func importKeystore(ctx context.Context, ctl *session.Controller, con *Console, path string) error {
	if ctl.State().Kind != session.Disconnected {
		return session.ErrInvalidState
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read keystore: %w", err)
	}
	filePw, err := con.ReadPassword("Keystore password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(filePw)

	login, err := withNewPassword(con, func(pw, confirm string) (session.Login, error) {
		return ctl.ImportKeystore(ctx, data, string(filePw), pw, confirm)
	})
	if err != nil {
		if err := warnRegistration(con, err); err != nil {
			return err
		}
	}
	printLogin(con, login)
	return nil
}
