package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/ledger"
	"github.com/illarion/seedlock/internal/logging"
	"github.com/illarion/seedlock/internal/mnemonic"
	"github.com/illarion/seedlock/internal/registry"
	"github.com/illarion/seedlock/internal/session"
	"github.com/illarion/seedlock/internal/storage"
	"github.com/illarion/seedlock/internal/vault"
	"golang.org/x/time/rate"
)

const registryTimeout = 10 * time.Second

// App owns the session controller and the backends behind it.
type App struct {
	Config     *config.Config
	Controller *session.Controller
	Log        logging.Logger

	closers []func() error
}

// Open wires the configured store, registry and ledger into a controller.
// onLock may be nil.
func Open(ctx context.Context, cfg *config.Config, onLock func(reason string)) (*App, error) {
	log, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.Close)

	reg, err := openRegistry(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	opts := session.Options{
		Store:       store,
		Registry:    reg,
		Logger:      log,
		KDF:         cfg.KDFParams(),
		LockTimeout: cfg.LockTimeout,
		OnLock:      onLock,
	}
	if c, ok := reg.(*registry.SQLiteRegistry); ok {
		app.closers = append(app.closers, c.Close)
	}

	if cfg.RPCURL != "" && cfg.TokenAddress != "" {
		erc20, closeClient, err := ledger.DialERC20(ctx, cfg.RPCURL, cfg.TokenAddress, cfg.TokenDecimals)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, func() error { closeClient(); return nil })
		opts.Ledger = erc20
	}

	if n := cfg.UnlockAttemptsPerMinute; n > 0 {
		opts.UnlockLimit = rate.Every(time.Minute / time.Duration(n))
		opts.UnlockBurst = n
	}

	ctl, err := session.New(ctx, opts)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Controller = ctl
	return app, nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreKeyring:
		return storage.NewKeyringStore(cfg.Profile), nil
	default:
		return storage.OpenBolt(cfg.StorePath())
	}
}

func openRegistry(ctx context.Context, cfg *config.Config) (registry.Registry, error) {
	switch cfg.RegistryBackend {
	case config.RegistryHTTP:
		return registry.NewHTTPClient(cfg.RegistryURL, &http.Client{Timeout: registryTimeout}), nil
	default:
		return registry.OpenSQLite(ctx, cfg.RegistryPath())
	}
}

// Close wipes the session and releases backends in reverse order.
func (a *App) Close() {
	if a.Controller != nil {
		a.Controller.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

// OpenOrExit is like Open but exits on error.
func OpenOrExit(ctx context.Context, cfg *config.Config) *App {
	app, err := Open(ctx, cfg, nil)
	if err != nil {
		HandleError(err)
	}
	return app
}

// describeError turns known failures into a message and an optional hint.
func describeError(err error) (msg, hint string) {
	var wordErr *mnemonic.InvalidWordError
	switch {
	case errors.Is(err, session.ErrNoVaultFound):
		return "no wallet found", "Run 'seedlock create' or 'seedlock import' first"
	case errors.Is(err, vault.ErrCorruptVault):
		return "wallet data is corrupt", "Run 'seedlock disconnect' and import your recovery phrase again"
	case errors.Is(err, vault.ErrDecryption):
		return "wrong password", ""
	case errors.Is(err, session.ErrTooManyAttempts):
		return "too many attempts", "Wait a minute and try again"
	case errors.Is(err, session.ErrBackupNotVerified):
		return "recovery phrase backup not verified", ""
	case errors.Is(err, session.ErrInvalidState):
		return "not allowed right now", "Use 'seedlock status' to see the current state"
	case errors.Is(err, session.ErrNoLedger):
		return "no token ledger configured", "Set -rpc-url and -token"
	case errors.As(err, &wordErr):
		return wordErr.Error(), ""
	case errors.Is(err, mnemonic.ErrUnsupportedLength):
		return "recovery phrase must have 12, 15, 18 or 24 words", ""
	case errors.Is(err, mnemonic.ErrInvalidMnemonic):
		return "invalid recovery phrase", "Check the word order and spelling"
	default:
		return err.Error(), ""
	}
}

// PrintError writes err to stderr without exiting.
func PrintError(err error) {
	msg, hint := describeError(err)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	if hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
}

// HandleError prints err and exits.
func HandleError(err error) {
	PrintError(err)
	os.Exit(1)
}

// warnRegistration reports a registry failure after a wallet was saved.
func warnRegistration(con *Console, err error) error {
	if errors.Is(err, session.ErrRegistration) {
		con.Printf("Warning: %s\n", err)
		con.Println("Your wallet is saved and unlocked.")
		return nil
	}
	return err
}
