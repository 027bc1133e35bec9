package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/phrazzld/studydeck/internal/config"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/backend"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/service"
	"github.com/phrazzld/studydeck/internal/service/card_review"
	"github.com/spf13/cobra"
)

// learnerEnv names the environment variable used when --learner is not set.
const learnerEnv = "STUDYDECK_LEARNER"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "deck",
		Short:        "Spaced repetition flashcards",
		Long:         "deck stores flashcards and schedules their reviews with the SM-2 algorithm.",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("db", "studydeck.db", "Path to SQLite database file")
	flags.String("database-url", "", "PostgreSQL connection URL (overrides --db)")
	flags.String("learner", "", "Learner ID (defaults to $"+learnerEnv+")")
	flags.String("now", "", "Pretend the current time is this RFC3339 instant")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newMigrateCmd(),
		newAddCmd(),
		newImportCmd(),
		newDueCmd(),
		newReviewCmd(),
		newPostponeCmd(),
		newProgressCmd(),
		newQualitiesCmd(),
	)
	return root
}

// session is everything a command needs to talk to the deck.
type session struct {
	backend *backend.Backend
	clock   srs.Clock
	logger  *slog.Logger
	learner uuid.UUID

	cards   service.CardService
	reviews card_review.CardReviewService
}

func (s *session) Close() error {
	return s.backend.Close()
}

// databaseConfig resolves the storage backend from the persistent flags.
func databaseConfig(cmd *cobra.Command) config.DatabaseConfig {
	if url, _ := cmd.Flags().GetString("database-url"); url != "" {
		return config.DatabaseConfig{Driver: backend.DriverPostgres, URL: url, MaxOpenConns: 4, MaxIdleConns: 2}
	}
	path, _ := cmd.Flags().GetString("db")
	return config.DatabaseConfig{Driver: backend.DriverSQLite, Path: path, MaxOpenConns: 1}
}

func commandLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.New(cmd.ErrOrStderr(), level)
}

// resolveClock returns a fixed clock for --now and the system clock otherwise.
func resolveClock(cmd *cobra.Command) (srs.Clock, error) {
	raw, _ := cmd.Flags().GetString("now")
	if raw == "" {
		return srs.SystemClock{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --now %q: %w", raw, err)
	}
	return srs.NewFixedClock(t.UTC()), nil
}

// resolveLearner returns the learner from --learner, then $STUDYDECK_LEARNER.
func resolveLearner(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("learner")
	if raw == "" {
		raw = os.Getenv(learnerEnv)
	}
	if raw == "" {
		return uuid.Nil, fmt.Errorf("no learner: pass --learner or set %s", learnerEnv)
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid learner ID %q", raw)
	}
	return id, nil
}

// openSession connects to the deck, applying pending migrations, and builds
// the services for the selected learner.
func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	learner, err := resolveLearner(cmd)
	if err != nil {
		return nil, err
	}
	clock, err := resolveClock(cmd)
	if err != nil {
		return nil, err
	}
	log := commandLogger(cmd)

	dbCfg := databaseConfig(cmd)
	dbCfg.AutoMigrate = true
	b, err := backend.Open(ctx, dbCfg, log)
	if err != nil {
		return nil, err
	}

	s := &session{backend: b, clock: clock, logger: log, learner: learner}

	s.cards, err = service.NewCardService(
		service.NewCardRepositoryAdapter(b.Cards, b.DB),
		service.NewProgressRepositoryAdapter(b.Progress),
		clock, log)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	srsService, err := srs.NewDefaultService()
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	s.reviews, err = card_review.NewCardReviewService(
		card_review.NewCardRepositoryAdapter(b.Cards, b.DB),
		card_review.NewProgressRepositoryAdapter(b.Progress),
		srsService,
		clock, log)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return s, nil
}

// withSession runs fn with an open session and closes it afterwards.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return fn(logger.WithContext(ctx, s.logger), s)
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
