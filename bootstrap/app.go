package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kbukum/legalassist/config"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/observability"
	"github.com/kbukum/legalassist/process"
)

// App owns the process-wide handles built from Settings. Heavy handles
// (providers, index, storage, ledger) are built on first use so a command
// only pays for what it touches.
type App struct {
	Name    string
	Version string
	Cfg     *config.Settings
	Logger  *logger.Logger
	Metrics *observability.Metrics

	runner          process.Runner
	gracefulTimeout time.Duration

	mu     sync.Mutex
	onStop []namedHook
	built  components
}

const defaultGracefulTimeout = 15 * time.Second

// Option overrides a handle NewApp would otherwise build from Settings.
type Option func(*App)

// WithLogger skips building a logger from the logging settings.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) { a.Logger = l }
}

// WithRunner replaces the subprocess runner used to invoke ffmpeg.
func WithRunner(r process.Runner) Option {
	return func(a *App) { a.runner = r }
}

// NewApp initializes logging, metrics and tracing from cfg. cfg must
// already have defaults applied and be valid, as config.Load returns it.
func NewApp(cfg *config.Settings, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: settings are required")
	}

	app := &App{
		Name:            cfg.Name,
		Version:         cfg.Version,
		Cfg:             cfg,
		gracefulTimeout: defaultGracefulTimeout,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Logger == nil {
		logger.Init(cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	logger.SetGlobalLogger(app.Logger)

	if cfg.Observability.Metrics {
		app.Metrics = observability.NewMetrics()
	}
	if cfg.Observability.Tracing {
		tp, err := observability.InitTracer(context.Background(), cfg.Observability, cfg.Name)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: tracing: %w", err)
		}
		app.OnStop("tracer", tp.Shutdown)
	}

	app.Logger.Debug("Application initialized", logger.Fields(
		"name", app.Name,
		"version", app.Version,
		"environment", cfg.Environment,
	))
	return app, nil
}

// RunTask runs a finite task and cancels its context on SIGINT or SIGTERM.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return task(ctx)
}

// WaitForSignal blocks until an interrupt or termination signal arrives
// or ctx is done.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		return nil
	}
}

// Shutdown runs the stop hooks within the graceful timeout. It is safe to
// call more than once; hooks run only the first time.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	hooks := a.onStop
	a.onStop = nil
	a.mu.Unlock()
	if len(hooks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.gracefulTimeout)
	defer cancel()

	a.Logger.Debug("Shutting down", logger.Fields("hooks", len(hooks), "timeout", a.gracefulTimeout.String()))
	if err := runHooks(ctx, hooks); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("shutdown", err))
		return err
	}
	return nil
}
