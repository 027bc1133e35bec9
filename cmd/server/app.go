package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/studydeck/internal/config"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/backend"
	"github.com/phrazzld/studydeck/internal/reminder"
	"github.com/phrazzld/studydeck/internal/service"
	"github.com/phrazzld/studydeck/internal/service/card_review"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	clock  srs.Clock

	backend *backend.Backend

	srsService        srs.Service
	cardService       service.CardService
	cardReviewService card_review.CardReviewService
	settingsService   service.SettingsService

	reminders *reminder.Scheduler
}

// newApplication wires services on top of an opened backend.
func newApplication(cfg *config.Config, logger *slog.Logger, b *backend.Backend) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		clock:   srs.SystemClock{},
		backend: b,
	}

	params := srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:     cfg.SRS.MinEaseFactor,
		InitialEaseFactor: cfg.SRS.InitialEaseFactor,
		FirstInterval:     cfg.SRS.FirstInterval,
		SecondInterval:    cfg.SRS.SecondInterval,
	})

	var err error
	app.srsService, err = srs.NewServiceWithParams(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	app.cardService, err = service.NewCardService(
		service.NewCardRepositoryAdapter(b.Cards, b.DB),
		service.NewProgressRepositoryAdapter(b.Progress),
		app.clock,
		logger,
		service.WithInitialEaseFactor(params.InitialEaseFactor),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.cardReviewService, err = card_review.NewCardReviewService(
		card_review.NewCardRepositoryAdapter(b.Cards, b.DB),
		card_review.NewProgressRepositoryAdapter(b.Progress),
		app.srsService,
		app.clock,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create card review service: %w", err)
	}

	app.settingsService, err = service.NewSettingsService(b.Settings, app.clock, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings service: %w", err)
	}

	if cfg.Reminder.Enabled {
		app.reminders, err = newReminderScheduler(cfg.Reminder, b, app.clock, logger)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// newReminderScheduler picks the telegram notifier when a bot token is
// configured, logging reminders otherwise.
func newReminderScheduler(
	cfg config.ReminderConfig,
	b *backend.Backend,
	clock srs.Clock,
	logger *slog.Logger,
) (*reminder.Scheduler, error) {
	var notifier reminder.Notifier = reminder.NewLogNotifier(logger)
	if cfg.TelegramToken != "" {
		bot, err := reminder.NewTelegramBot(cfg.TelegramToken, "", http.DefaultClient)
		if err != nil {
			return nil, err
		}
		notifier = reminder.NewTelegramNotifier(bot, notifier, logger)
		logger.Info("telegram reminders enabled", slog.String("bot", bot.Self.UserName))
	}

	s, err := reminder.NewScheduler(cfg.Cron, b.Settings, b.Cards, notifier, clock, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder scheduler: %w", err)
	}
	return s, nil
}

// Run starts the reminder scheduler and the HTTP server and blocks until
// ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if app.reminders != nil {
		if err := app.reminders.Start(ctx); err != nil {
			app.cleanup()
			return err
		}
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.reminders != nil {
		app.reminders.Stop()
	}

	if app.backend != nil {
		if err := app.backend.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
