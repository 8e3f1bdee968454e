package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/askriger/todostore/internal/config"
	"github.com/askriger/todostore/internal/platform/postgres"
	"github.com/askriger/todostore/internal/service"
	"github.com/askriger/todostore/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	taskStore store.TaskStore

	// The single task service handed to all consumers
	taskService *service.TaskService
}

// newApplication creates a new application instance with all dependencies
// initialized: the database connection is established and migrated, and the
// one TaskService for this storage location is constructed. A storage
// location that cannot be opened is a fatal initialization error.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*application, error) {
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, logger); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Error closing database connection", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.taskStore = postgres.NewTaskStore(db, logger)

	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run blocks until the context is canceled. It keeps a debug observer on the
// task snapshot stream so every change to the collection is visible in the
// logs while the process runs.
func (app *application) Run(ctx context.Context) error {
	sub, err := app.taskService.ObserveAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to observe task collection: %w", err)
	}
	defer app.taskService.Unsubscribe(sub)

	app.logger.Info("Task store ready", "database_url_present", app.config.Database.URL != "")

	for {
		select {
		case snapshot, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			app.logger.Debug("Task collection changed", "task_count", len(snapshot))
		case <-ctx.Done():
			app.logger.Info("Shutdown signal received")
			return nil
		}
	}
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskService != nil {
		app.taskService.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
