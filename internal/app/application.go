package app

import (
	"context"
	"errors"
	"time"

	"github.com/vennverse/formfill/internal/cli"
	"github.com/vennverse/formfill/internal/logging"
)

// Application is the global runtime state container.
// It holds config, parsed CLI args and the core services that are shared
// across modules (orchestrator, logger). Pass Application into modules that
// need access to the global state rather than using package-level variables.
type Application struct {
	Config *Config
	Args   *cli.Args

	Logger logging.Logger
	Orch   *Orchestrator

	// internal context for cancellation / lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApplication constructs an Application from the provided parts.
// Keep the constructor simple: pass already-constructed parts so this function
// is easy to test and does not import heavy dependencies.
func NewApplication(cfg *Config, args *cli.Args, logger logging.Logger, orch *Orchestrator) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	return &Application{
		Config: cfg,
		Args:   args,
		Logger: logger,
		Orch:   orch,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins any background work the Application needs. Currently a no-op
// aside from logging; the HTTP server and jobs are started by the caller.
func (a *Application) Start() error {
	if a == nil {
		return errors.New("application is nil")
	}
	if a.Logger != nil {
		a.Logger.Info("application starting",
			logging.Field{Key: "mode", Value: a.Args.Mode},
			logging.Field{Key: "target", Value: a.Args.Target})
	}
	return nil
}

// Shutdown attempts a graceful shutdown, delegating to the orchestrator first.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	if a.Logger != nil {
		a.Logger.Info("application shutdown initiated")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if a.Orch != nil {
		if err := a.Orch.Shutdown(shutdownCtx); err != nil {
			if a.Logger != nil {
				a.Logger.Info("orchestrator shutdown returned error", logging.Field{Key: "error", Value: err.Error()})
			}
		}
	}

	a.cancel()

	return nil
}
