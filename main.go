// Command formfill fills job-application forms from a stored user profile.
//
// Modes:
//
//	serve  - start the HTTP/WebSocket API (default)
//	fill   - run a single fill pass against -target and exit
//	watch  - keep the page open and refill as the form changes, until interrupted
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vennverse/formfill/internal/app"
	"github.com/vennverse/formfill/internal/cli"
	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/profile"
	"github.com/vennverse/formfill/internal/registry"
	"github.com/vennverse/formfill/internal/server"

	_ "modernc.org/sqlite" // SQLite driver
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		os.Exit(1)
	}
}

func run(rawArgs []string) error {
	args, err := cli.ParseArgs(rawArgs)
	if err != nil {
		return err
	}

	logger := logging.NewStdoutLogger("Formfill")
	cfg := app.DefaultConfig()
	cfg.SessionCfg.Headless = !args.Headful

	switch args.Mode {
	case "serve":
		return runServe(cfg, logger)
	case "fill":
		return runFill(cfg, args, logger)
	case "watch":
		return runWatch(cfg, args, logger)
	}
	return fmt.Errorf("unknown mode %q", args.Mode)
}

func runServe(cfg *app.Config, logger logging.Logger) error {
	s, err := server.NewServer(server.Config{
		ListenAddr: cfg.ServerAddr,
		AppConfig:  cfg,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	srv := s.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", logging.Field{Key: "addr", Value: cfg.ServerAddr})
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-sigCh:
		logger.Info("shutting down", logging.Field{Key: "signal", Value: sig.String()})
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("server shutdown", logging.Field{Key: "error", Value: err.Error()})
		}
	}
	return nil
}

// newOrchestrator wires the registry, profile loader and orchestrator for the
// standalone fill modes. The serve mode builds its own inside server.NewServer.
func newOrchestrator(cfg *app.Config, logger logging.Logger) (*app.Orchestrator, *sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening registry database: %w", err)
	}

	reg, err := registry.NewRegistry(db, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("creating registry: %w", err)
	}

	loader := profile.NewLoader(cfg.LoaderCfg, nil, logger)
	return app.NewOrchestrator(cfg, reg, loader, logger), db, nil
}

func runFill(cfg *app.Config, args *cli.Args, logger logging.Logger) error {
	orch, db, err := newOrchestrator(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	defer orch.Shutdown(context.Background())

	report, err := orch.FillOnce(context.Background(), args.Account, args.Target)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func runWatch(cfg *app.Config, args *cli.Args, logger logging.Logger) error {
	orch, db, err := newOrchestrator(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	defer orch.Shutdown(context.Background())

	job, err := orch.StartFillJob(context.Background(), args.Account, args.Target)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for {
		select {
		case sig := <-sigCh:
			logger.Info("canceling watch", logging.Field{Key: "signal", Value: sig.String()})
			orch.CancelJob(job.ID)
		case ev, ok := <-job.Events:
			if !ok {
				final := orch.GetJob(job.ID)
				if final != nil && final.Error != "" {
					return errors.New(final.Error)
				}
				return nil
			}
			if ev.Report != nil {
				if err := enc.Encode(ev.Report); err != nil {
					return err
				}
			} else {
				logger.Info("job status",
					logging.Field{Key: "job", Value: ev.JobID},
					logging.Field{Key: "status", Value: string(ev.Status)})
			}
		}
	}
}
