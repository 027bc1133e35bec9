package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/store"
)

type settingsRow struct {
	UserID         uuid.UUID     `db:"user_id"`
	StudyReminders bool          `db:"study_reminders"`
	ReminderHour   sql.NullInt64 `db:"reminder_hour"`
	TelegramChatID sql.NullInt64 `db:"telegram_chat_id"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

func (r settingsRow) toDomain() *domain.LearnerSettings {
	s := &domain.LearnerSettings{
		UserID:         r.UserID,
		StudyReminders: r.StudyReminders,
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.ReminderHour.Valid {
		h := int(r.ReminderHour.Int64)
		s.ReminderHour = &h
	}
	if r.TelegramChatID.Valid {
		id := r.TelegramChatID.Int64
		s.TelegramChatID = &id
	}
	return s
}

// SettingsStore implements store.SettingsStore on SQLite.
type SettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSettingsStore creates a SQLite SettingsStore.
func NewSettingsStore(db store.DBTX, logger *slog.Logger) *SettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_settings_store")),
	}
}

var _ store.SettingsStore = (*SettingsStore)(nil)

func (s *SettingsStore) query(ctx context.Context, where string, args ...any) ([]*domain.LearnerSettings, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, study_reminders, reminder_hour, telegram_chat_id, updated_at FROM learner_settings `+where,
		args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var dest []settingsRow
	if err := sqlx.StructScan(rows, &dest); err != nil {
		return nil, fmt.Errorf("scan learner settings: %w", err)
	}
	out := make([]*domain.LearnerSettings, 0, len(dest))
	for _, r := range dest {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// Get implements store.SettingsStore.Get
func (s *SettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.LearnerSettings, error) {
	out, err := s.query(ctx, `WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, store.ErrSettingsNotFound
	}
	return out[0], nil
}

// Upsert implements store.SettingsStore.Upsert
func (s *SettingsStore) Upsert(ctx context.Context, settings *domain.LearnerSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	var hour, chatID sql.NullInt64
	if settings.ReminderHour != nil {
		hour = sql.NullInt64{Int64: int64(*settings.ReminderHour), Valid: true}
	}
	if settings.TelegramChatID != nil {
		chatID = sql.NullInt64{Int64: *settings.TelegramChatID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learner_settings (user_id, study_reminders, reminder_hour, telegram_chat_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			study_reminders = excluded.study_reminders,
			reminder_hour = excluded.reminder_hour,
			telegram_chat_id = excluded.telegram_chat_id,
			updated_at = excluded.updated_at`,
		settings.UserID, settings.StudyReminders, hour, chatID, settings.UpdatedAt.UTC(),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to upsert learner settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return MapError(err)
	}
	return nil
}

// ListReminderEnabled implements store.SettingsStore.ListReminderEnabled
func (s *SettingsStore) ListReminderEnabled(ctx context.Context) ([]*domain.LearnerSettings, error) {
	return s.query(ctx, `WHERE study_reminders = 1 ORDER BY user_id`)
}
