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

const progressColumns = `user_id, document_id, flashcards_reviewed, retention_rate,
	study_time_minutes, last_studied_at, created_at, updated_at`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

func scanProgress(row rowScanner) (*domain.StudyProgress, error) {
	var (
		p           domain.StudyProgress
		lastStudied sql.NullTime
	)
	err := row.Scan(
		&p.UserID,
		&p.DocumentID,
		&p.FlashcardsReviewed,
		&p.RetentionRate,
		&p.StudyTimeMinutes,
		&lastStudied,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastStudied.Valid {
		p.LastStudiedAt = lastStudied.Time
	}
	return &p, nil
}

// Get implements store.ProgressStore.Get
// Returns store.ErrProgressNotFound if nothing was recorded yet.
func (s *PostgresProgressStore) Get(ctx context.Context, userID, documentID uuid.UUID) (*domain.StudyProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + progressColumns + ` FROM study_progress WHERE user_id = $1 AND document_id = $2`

	p, err := scanProgress(s.db.QueryRowContext(ctx, query, userID, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("study progress not found",
				slog.String("user_id", userID.String()),
				slog.String("document_id", documentID.String()))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get study progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	return p, nil
}

// Upsert implements store.ProgressStore.Upsert
func (s *PostgresProgressStore) Upsert(ctx context.Context, p *domain.StudyProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		log.Warn("study progress validation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", p.UserID.String()))
		return err
	}

	var lastStudied sql.NullTime
	if !p.LastStudiedAt.IsZero() {
		lastStudied = sql.NullTime{Time: p.LastStudiedAt, Valid: true}
	}

	query := `
		INSERT INTO study_progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, document_id) DO UPDATE SET
			flashcards_reviewed = EXCLUDED.flashcards_reviewed,
			retention_rate = EXCLUDED.retention_rate,
			study_time_minutes = EXCLUDED.study_time_minutes,
			last_studied_at = EXCLUDED.last_studied_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		p.UserID,
		p.DocumentID,
		p.FlashcardsReviewed,
		p.RetentionRate,
		p.StudyTimeMinutes,
		lastStudied,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert study progress",
			slog.String("error", err.Error()),
			slog.String("user_id", p.UserID.String()),
			slog.String("document_id", p.DocumentID.String()))
		return MapError(err)
	}

	log.Debug("study progress saved",
		slog.String("user_id", p.UserID.String()),
		slog.String("document_id", p.DocumentID.String()),
		slog.Int("flashcards_reviewed", p.FlashcardsReviewed))
	return nil
}

// ListByUser implements store.ProgressStore.ListByUser
func (s *PostgresProgressStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudyProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + progressColumns + ` FROM study_progress
		WHERE user_id = $1 ORDER BY last_studied_at DESC NULLS LAST, document_id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list study progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*domain.StudyProgress, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
