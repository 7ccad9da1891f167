package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/moodmate/internal/infra/config"
)

// Closer releases background resources once the server has stopped.
type Closer interface {
	Close()
}

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	server     *http.Server
	background Closer
}

// NewApp is used by Wire to build the runnable app. background is closed
// after the server shuts down, stopping per-user refreshers.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, background Closer) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, background: background}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()
	defer a.closeBackground()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) closeBackground() {
	if a.background == nil {
		return
	}
	a.background.Close()
	a.logger.Info("background workers stopped")
}
