package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/store"
)

// PostgresSettingsStore implements the store.SettingsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingsStore creates a new PostgreSQL implementation of the SettingsStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

// Ensure PostgresSettingsStore implements store.SettingsStore interface
var _ store.SettingsStore = (*PostgresSettingsStore)(nil)

func scanSettings(row rowScanner) (*domain.LearnerSettings, error) {
	var (
		s      domain.LearnerSettings
		hour   sql.NullInt16
		chatID sql.NullInt64
	)
	if err := row.Scan(&s.UserID, &s.StudyReminders, &hour, &chatID, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if hour.Valid {
		h := int(hour.Int16)
		s.ReminderHour = &h
	}
	if chatID.Valid {
		id := chatID.Int64
		s.TelegramChatID = &id
	}
	return &s, nil
}

// Get implements store.SettingsStore.Get
func (s *PostgresSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.LearnerSettings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, study_reminders, reminder_hour, telegram_chat_id, updated_at
		FROM learner_settings
		WHERE user_id = $1
	`

	settings, err := scanSettings(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learner settings not found", slog.String("user_id", userID.String()))
			return nil, store.ErrSettingsNotFound
		}
		log.Error("failed to get learner settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	return settings, nil
}

// Upsert implements store.SettingsStore.Upsert
func (s *PostgresSettingsStore) Upsert(ctx context.Context, settings *domain.LearnerSettings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		log.Warn("learner settings validation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return err
	}

	var (
		hour   sql.NullInt16
		chatID sql.NullInt64
	)
	if settings.ReminderHour != nil {
		hour = sql.NullInt16{Int16: int16(*settings.ReminderHour), Valid: true}
	}
	if settings.TelegramChatID != nil {
		chatID = sql.NullInt64{Int64: *settings.TelegramChatID, Valid: true}
	}

	query := `
		INSERT INTO learner_settings (user_id, study_reminders, reminder_hour, telegram_chat_id, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			study_reminders = EXCLUDED.study_reminders,
			reminder_hour = EXCLUDED.reminder_hour,
			telegram_chat_id = EXCLUDED.telegram_chat_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, settings.UserID, settings.StudyReminders, hour, chatID, settings.UpdatedAt)
	if err != nil {
		log.Error("failed to upsert learner settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return MapError(err)
	}

	log.Info("learner settings saved",
		slog.String("user_id", settings.UserID.String()),
		slog.Bool("study_reminders", settings.StudyReminders))
	return nil
}

// ListReminderEnabled implements store.SettingsStore.ListReminderEnabled
func (s *PostgresSettingsStore) ListReminderEnabled(ctx context.Context) ([]*domain.LearnerSettings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, study_reminders, reminder_hour, telegram_chat_id, updated_at
		FROM learner_settings
		WHERE study_reminders
		ORDER BY user_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list reminder settings", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*domain.LearnerSettings, 0)
	for rows.Next() {
		settings, err := scanSettings(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, settings)
	}
	return out, rows.Err()
}
