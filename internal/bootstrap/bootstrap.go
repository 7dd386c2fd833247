// Package bootstrap wires the application components from the configuration
// and manages the server lifecycle.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/at-ishikawa/dailyexpression/internal/config"
)

const defaultShutdownTimeout = 10 * time.Second

// App owns what the server opened and releases it when the process stops.
type App struct {
	mu              sync.Mutex
	hooks           []func(ctx context.Context) error
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

type AppOption func(*App)

func WithShutdownTimeout(timeout time.Duration) AppOption {
	return func(a *App) {
		a.shutdownTimeout = timeout
	}
}

func WithAppLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

func New(opts ...AppOption) *App {
	a := &App{
		shutdownTimeout: defaultShutdownTimeout,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddShutdownHook registers fn. Hooks run in reverse order of registration.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Build builds the dependencies from cfg and closes their storage on shutdown.
func (a *App) Build(ctx context.Context, cfg *config.Config, opts ...Option) (*Dependencies, error) {
	deps, err := Build(ctx, cfg, append([]Option{WithLogger(a.logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	a.AddShutdownHook(func(context.Context) error {
		a.logger.Info("closing storage", slog.String("driver", cfg.Storage.Driver))
		if err := deps.Close(); err != nil {
			return fmt.Errorf("deps.Close() > %w", err)
		}
		return nil
	})
	return deps, nil
}

// Serve runs srv until ctx is canceled or a signal arrives, then shuts it
// down before the hooks registered earlier, such as the storage.
func (a *App) Serve(ctx context.Context, srv *http.Server) error {
	a.AddShutdownHook(srv.Shutdown)
	return a.Run(ctx, func(ctx context.Context) error {
		a.logger.Info("starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		}
		return nil
	})
}

// Run blocks until run returns, ctx is canceled, or SIGINT/SIGTERM is received.
// The shutdown hooks run in every case, so a server that fails to start
// still releases its storage.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancelShutdown()
	return errors.Join(runErr, a.shutdown(shutdownCtx))
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			a.logger.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
