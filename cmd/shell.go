package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/mnemonic"
	"github.com/illarion/seedlock/internal/session"
)

// Shell runs an interactive session that keeps the wallet unlocked in
// memory between commands until it is locked or the inactivity timeout
// fires.
func Shell(ctx context.Context, cfg *config.Config) {
	con := NewConsole()
	app, err := Open(ctx, cfg, func(reason string) {
		con.Printf("\nWallet locked (%s)\n", reason)
	})
	if err != nil {
		HandleError(err)
	}
	defer app.Close()

	sh := &shell{cfg: cfg, ctl: app.Controller, con: con}
	if err := sh.run(ctx); err != nil {
		app.Close()
		HandleError(err)
	}
}

type shell struct {
	cfg *config.Config
	ctl *session.Controller
	con *Console
}

func (s *shell) run(ctx context.Context) error {
	s.con.Println("Type 'help' for commands, 'exit' to quit.")
	for ctx.Err() == nil {
		line, err := s.con.ReadLine(s.prompt())
		if errors.Is(err, io.EOF) {
			s.con.Println()
			return nil
		}
		if err != nil {
			return err
		}
		s.ctl.Touch(session.KeyPress)

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}
		if err := s.exec(ctx, args[0], args[1:]); err != nil {
			s.report(err)
		}
	}
	return nil
}

func (s *shell) exec(ctx context.Context, name string, args []string) error {
	switch name {
	case "help":
		s.help()
		return nil
	case "status":
		return showStatus(ctx, s.cfg, s.ctl, s.con)
	case "create":
		words := mnemonic.DefaultWordCount
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid word count %q", args[0])
			}
			words = n
		}
		return createWallet(ctx, s.ctl, s.con, words)
	case "import":
		if len(args) > 0 {
			return importKeystore(ctx, s.ctl, s.con, args[0])
		}
		return importWallet(ctx, s.ctl, s.con)
	case "unlock":
		if s.ctl.State().Kind == session.Unlocked {
			s.con.Println("Already unlocked")
			return nil
		}
		if err := ensureUnlocked(ctx, s.ctl, s.con); err != nil {
			return err
		}
		s.con.Printf("✓ Unlocked %s\n", s.ctl.State().Address)
		return nil
	case "lock":
		return lockSession(ctx, s.ctl, s.con)
	case "disconnect":
		return disconnect(ctx, s.ctl, s.con, false)
	case "balance":
		return balance(ctx, s.ctl, s.con)
	case "send", "transfer":
		if len(args) != 2 {
			return errors.New("usage: send <address> <amount>")
		}
		return transfer(ctx, s.ctl, s.con, args[0], args[1], false)
	case "export":
		out := ""
		if len(args) > 0 {
			out = args[0]
		}
		return exportKeystore(ctx, s.ctl, s.con, out)
	case "passwd":
		return changePassword(ctx, s.ctl, s.con)
	case "suggest":
		if len(args) != 1 {
			return errors.New("usage: suggest <prefix>")
		}
		suggest(s.con, args[0])
		return nil
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

func (s *shell) prompt() string {
	state := s.ctl.State()
	if state.Kind == session.Disconnected {
		return "seedlock (disconnected)> "
	}
	return fmt.Sprintf("seedlock (%s %s)> ", state.Kind, shortAddress(state.Address))
}

func (s *shell) report(err error) {
	if errors.Is(err, errCancelled) {
		s.con.Println("Cancelled")
		return
	}
	msg, hint := describeError(err)
	s.con.Printf("Error: %s\n", msg)
	if hint != "" {
		s.con.Println(hint)
	}
}

func (s *shell) help() {
	s.con.Println("Commands:")
	s.con.Println("  status                  Show wallet state")
	s.con.Println("  create [words]          Create a wallet (12, 15, 18 or 24 words)")
	s.con.Println("  import [keystore-file]  Import from a recovery phrase or keystore v3 file")
	s.con.Println("  unlock                  Unlock the wallet")
	s.con.Println("  lock                    Lock the wallet")
	s.con.Println("  balance                 Show token balance")
	s.con.Println("  send <address> <amount> Send tokens")
	s.con.Println("  export [file]           Export a keystore v3 file")
	s.con.Println("  passwd                  Change the wallet password")
	s.con.Println("  suggest <prefix>        Complete a recovery phrase word")
	s.con.Println("  disconnect              Delete the wallet from this device")
	s.con.Println("  exit                    Leave the shell")
}

func shortAddress(address string) string {
	if len(address) < 12 {
		return address
	}
	return address[:6] + "…" + address[len(address)-4:]
}
