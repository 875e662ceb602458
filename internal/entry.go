// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/mimir/internal/catalog"
	"github.com/starford/mimir/internal/command"
	"github.com/starford/mimir/internal/hooks"
	"github.com/starford/mimir/internal/loader"
	"github.com/starford/mimir/internal/mcpserver"
	"github.com/starford/mimir/internal/search"
	"github.com/starford/mimir/internal/session"
	"github.com/starford/mimir/internal/settings"
	"github.com/starford/mimir/internal/vault"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logger on stderr: stdout carries the MCP transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("tracker_dir", cfg.Tracker.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure vault directory exists so the watcher has a root to follow.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	store, err := vault.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init vault: %w", err)
	}

	snap := catalog.NewStore(cfg.Catalog.Path)
	builder := catalog.NewBuilder(store, snap, logger)
	engine := search.NewEngine(snap)
	ldr := loader.New(store, logger)

	tracker := session.NewTracker(cfg.Tracker.Dir, settings.NewStore(cfg.Settings.Path), logger)
	dispatcher := hooks.NewDispatcher(tracker, engine, builder, cfg.Templates.Dir, logger)

	commands := command.Load(cfg.Commands.Dir, logger)
	logger.Info("Commands loaded", slog.Int("count", len(commands)))

	// Bring the snapshot up to date before serving.
	if builder.NeedsRebuild() {
		if _, err := builder.Rebuild(); err != nil {
			logger.Warn("initial catalog build failed", slog.String("error", err.Error()))
		}
	}

	srv := mcpserver.New(builder, engine, ldr, dispatcher, commands)

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.App.Watch {
		g.Go(func() error {
			if err := catalog.Watch(gCtx, builder, cfg.Vault.Path, logger); err != nil {
				logger.Warn("watcher exited", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Serving MCP over stdio")
		if err := srv.ServeStdio(); err != nil {
			return fmt.Errorf("mcp server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, shutting down")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped")
	return nil
}
