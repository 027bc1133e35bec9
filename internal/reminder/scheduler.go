package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/redact"
	"github.com/phrazzld/studydeck/internal/store"
)

// DefaultCron runs the reminder job at the top of every hour.
const DefaultCron = "0 * * * *"

// RunReport summarises one reminder run.
type RunReport struct {
	Checked int // learners with reminders enabled for this hour
	Sent    int
	Failed  int
}

// Scheduler runs the study reminder job.
type Scheduler struct {
	cron     *gocron.Scheduler
	expr     string
	settings store.SettingsStore
	cards    store.CardStore
	notifier Notifier
	clock    srs.Clock
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler for the given cron expression.
// An empty expression uses DefaultCron and a nil clock uses srs.SystemClock.
func NewScheduler(
	expr string,
	settings store.SettingsStore,
	cards store.CardStore,
	notifier Notifier,
	clock srs.Clock,
	logger *slog.Logger,
) (*Scheduler, error) {
	if settings == nil || cards == nil || notifier == nil {
		return nil, errors.New("reminder scheduler requires settings store, card store and notifier")
	}
	if expr == "" {
		expr = DefaultCron
	}
	if clock == nil {
		clock = srs.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()

	return &Scheduler{
		cron:     cron,
		expr:     expr,
		settings: settings,
		cards:    cards,
		notifier: notifier,
		clock:    clock,
		logger:   logger.With(slog.String("component", "reminder_scheduler")),
	}, nil
}

// Start schedules the job and starts the cron loop without blocking.
// Every run uses ctx, so cancelling it aborts the store queries of a run
// in progress; Stop must still be called to end the loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.Cron(s.expr).Do(func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("reminder run failed", slog.String("error", redact.Error(err)))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.expr, err)
	}

	s.cron.StartAsync()
	s.logger.Info("reminder scheduler started", slog.String("cron", s.expr))
	return nil
}

// Stop ends the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("reminder scheduler stopped")
}

// RunOnce sends reminders to every learner whose settings ask for one in
// the current hour and who has at least one card due.
func (s *Scheduler) RunOnce(ctx context.Context) (RunReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.Now().UTC()

	var report RunReport

	learners, err := s.settings.ListReminderEnabled(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list learners with reminders: %w", err)
	}

	for _, settings := range learners {
		if !settings.WantsReminderAt(now.Hour()) {
			continue
		}
		report.Checked++

		cards, err := s.cards.ListByUser(ctx, settings.UserID)
		if err != nil {
			report.Failed++
			log.Error("failed to load cards for reminder",
				slog.String("error", redact.Error(err)),
				slog.String("user_id", settings.UserID.String()))
			continue
		}

		due := srs.DueCount(cards, now)
		if due == 0 {
			continue
		}

		if err := s.notifier.SendReminder(ctx, settings, due); err != nil {
			report.Failed++
			log.Warn("failed to send reminder",
				slog.String("error", redact.Error(err)),
				slog.String("user_id", settings.UserID.String()))
			continue
		}
		report.Sent++
	}

	log.Info("reminder run complete",
		slog.Int("checked", report.Checked),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed))
	return report, nil
}
