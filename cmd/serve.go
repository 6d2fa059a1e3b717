package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/logging"
	"github.com/illarion/seedlock/internal/registry"
)

const shutdownTimeout = 5 * time.Second

// ServeRegistry runs the user registry HTTP API over the local SQLite
// registry until ctx is cancelled.
func ServeRegistry(ctx context.Context, cfg *config.Config, addr string) {
	if err := serveRegistry(ctx, cfg, addr); err != nil {
		HandleError(err)
	}
}

func serveRegistry(ctx context.Context, cfg *config.Config, addr string) error {
	log, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	reg, err := registry.OpenSQLite(ctx, cfg.RegistryPath())
	if err != nil {
		return err
	}
	defer reg.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           registry.Handler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info(ctx, "registry listening", "addr", addr, "db", cfg.RegistryPath())
	fmt.Printf("Registry listening on %s\n", addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("registry server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("registry shutdown: %w", err)
	}
	log.Info(ctx, "registry stopped")
	return nil
}
