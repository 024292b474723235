package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/anchornotes/anchornotes/internal/config"
	"github.com/anchornotes/anchornotes/internal/events"
	"github.com/anchornotes/anchornotes/internal/platform/notify"
	"github.com/anchornotes/anchornotes/internal/platform/postgres"
	"github.com/anchornotes/anchornotes/internal/service"
	"github.com/anchornotes/anchornotes/internal/service/auth"
	"github.com/anchornotes/anchornotes/internal/store"
	"github.com/anchornotes/anchornotes/internal/trigger"
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
	noteStore     store.NoteStore
	reminderStore store.ReminderStore
	tagStore      store.TagStore

	// Service interfaces
	jwtService      auth.JWTService
	keyVerifier     auth.KeyVerifier
	notifier        service.Notifier
	reminderService service.ReminderService
	noteService     service.NoteService
	tagService      service.TagService

	// Trigger sources and fire dispatch
	fireEmitter  *events.InMemoryFireEmitter
	timeSource   *trigger.TimeSource
	regionSource *trigger.RegionSource
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize API key verifier
	app.keyVerifier, err = auth.NewBcryptKeyVerifier(cfg.Auth.APIKeyHash)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API key verifier: %w", err)
	}

	// Initialize stores
	app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	app.reminderStore = postgres.NewPostgresReminderStore(db, logger)
	app.tagStore = postgres.NewPostgresTagStore(db, logger)

	// Initialize fire dispatch and trigger sources
	app.fireEmitter = events.NewInMemoryFireEmitter(logger)
	app.timeSource = trigger.NewTimeSource(app.fireEmitter, logger)
	app.regionSource = trigger.NewRegionSource(app.fireEmitter, logger)

	// Initialize notifier: webhook when configured, log otherwise
	if cfg.Reminder.WebhookURL != "" {
		app.notifier, err = notify.NewWebhookNotifier(cfg.Reminder.WebhookURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize webhook notifier: %w", err)
		}
		logger.Info("Webhook notifier initialized")
	} else {
		app.notifier = notify.NewLogNotifier(logger)
	}

	// Initialize reminder service
	app.reminderService, err = service.NewReminderService(
		db,
		app.noteStore,
		app.reminderStore,
		app.timeSource,
		app.regionSource,
		app.notifier,
		cfg.Reminder.Message,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder service: %w", err)
	}

	// Route fire events into the reminder service
	if handler, ok := app.reminderService.(events.FireHandler); ok {
		app.fireEmitter.RegisterHandler(handler)
	} else {
		return nil, fmt.Errorf("reminder service does not handle fire events")
	}

	// Initialize note service
	app.noteService, err = service.NewNoteService(db, app.noteStore, app.reminderService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create note service: %w", err)
	}

	// Initialize tag service
	app.tagService, err = service.NewTagService(db, app.tagStore, app.noteStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag service: %w", err)
	}

	// Re-establish trigger registrations for reminders that were active
	// when the previous process stopped. Overdue time reminders fire now.
	if err := app.reminderService.RearmActive(ctx); err != nil {
		return nil, fmt.Errorf("failed to re-arm active reminders: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop pending time triggers; registrations are rebuilt from the
	// store on the next start.
	if app.timeSource != nil {
		app.timeSource.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
