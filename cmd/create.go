package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/password"
	"github.com/illarion/seedlock/internal/session"
)

const (
	maxQuizRounds       = 3
	maxPasswordAttempts = 3
)

var errCancelled = errors.New("cancelled")

// Create generates a new wallet, quizzes the user on the recovery phrase
// and seals it under a new password.
func Create(ctx context.Context, cfg *config.Config, words int) {
	app := OpenOrExit(ctx, cfg)
	defer app.Close()

	if err := createWallet(ctx, app.Controller, NewConsole(), words); err != nil {
		app.Close()
		HandleError(err)
	}
}

func createWallet(ctx context.Context, ctl *session.Controller, con *Console, words int) error {
	ob, err := ctl.CreateWallet(ctx, words)
	if err != nil {
		return err
	}

	con.Println("Your recovery phrase:")
	con.Println()
	printPhrase(con, ob.Words())
	con.Println()
	con.Println("Write these words down in order and keep them offline.")
	con.Println("Anyone with this phrase controls the wallet.")
	if !con.Confirm("Have you written them down?") {
		ctl.CancelOnboarding(ctx)
		return errCancelled
	}

	if err := quiz(ctx, ctl, con, ob); err != nil {
		ctl.CancelOnboarding(ctx)
		return err
	}
	con.Println("✓ Backup confirmed")

	login, err := withNewPassword(con, func(pw, confirm string) (session.Login, error) {
		return ctl.ConfirmBackupAndSetPassword(ctx, pw, confirm)
	})
	if err != nil {
		if err := warnRegistration(con, err); err != nil {
			ctl.CancelOnboarding(ctx)
			return err
		}
	}
	printLogin(con, login)
	return nil
}

// quiz asks for the challenged words until they all match. Only wrong
// answers are asked again.
func quiz(ctx context.Context, ctl *session.Controller, con *Console, ob *session.Onboarding) error {
	indices := ob.Challenge()
	answers := make([]string, len(indices))
	ask := make([]bool, len(indices))
	for i := range ask {
		ask[i] = true
	}

	con.Println()
	con.Println("Confirm your backup by entering the requested words.")
	for round := 0; round < maxQuizRounds; round++ {
		for i, idx := range indices {
			if !ask[i] {
				continue
			}
			answer, err := con.ReadLine(fmt.Sprintf("Word #%d: ", idx+1))
			if err != nil {
				return err
			}
			answers[i] = answer
		}

		wrong, err := ctl.VerifyBackup(ctx, answers)
		if err != nil {
			return err
		}
		if ob.Verified() {
			return nil
		}
		for i, w := range wrong {
			if w {
				con.Printf("✗ Word #%d does not match\n", indices[i]+1)
			}
		}
		ask = wrong
	}
	return session.ErrBackupNotVerified
}

// withNewPassword prompts for a new password and passes it to finish,
// asking again while the policy rejects it.
func withNewPassword(con *Console, finish func(pw, confirm string) (session.Login, error)) (session.Login, error) {
	var err error
	for attempt := 0; attempt < maxPasswordAttempts; attempt++ {
		var pw, confirm []byte
		pw, confirm, err = con.ReadPasswordConfirm()
		if err != nil {
			return session.Login{}, err
		}
		var login session.Login
		login, err = finish(string(pw), string(confirm))
		crypto.ClearBytes(pw)
		crypto.ClearBytes(confirm)

		if !errors.Is(err, password.ErrPolicyViolation) && !errors.Is(err, password.ErrPasswordMismatch) {
			return login, err
		}
		con.Printf("✗ %s\n", err)
		if con.envPassword() != nil {
			break
		}
	}
	return session.Login{}, err
}

func printPhrase(con *Console, words []string) {
	const perRow = 4
	for i := 0; i < len(words); i += perRow {
		var row []string
		for j := i; j < i+perRow && j < len(words); j++ {
			row = append(row, fmt.Sprintf("%2d. %-10s", j+1, words[j]))
		}
		con.Println("  " + strings.TrimRight(strings.Join(row, " "), " "))
	}
}

func printLogin(con *Console, login session.Login) {
	con.Printf("✓ Wallet ready: %s\n", login.Address)
	if login.User.ID == "" {
		return
	}
	if login.NewUser {
		con.Printf("Welcome! Your reputation score is %d\n", login.User.ReputationScore)
	} else {
		con.Printf("Welcome back! Reputation score: %d\n", login.User.ReputationScore)
	}
}
