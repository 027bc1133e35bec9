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

type progressRow struct {
	UserID             uuid.UUID    `db:"user_id"`
	DocumentID         uuid.UUID    `db:"document_id"`
	FlashcardsReviewed int          `db:"flashcards_reviewed"`
	RetentionRate      float64      `db:"retention_rate"`
	StudyTimeMinutes   int          `db:"study_time_minutes"`
	LastStudiedAt      sql.NullTime `db:"last_studied_at"`
	CreatedAt          time.Time    `db:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at"`
}

func (r progressRow) toDomain() *domain.StudyProgress {
	p := &domain.StudyProgress{
		UserID:             r.UserID,
		DocumentID:         r.DocumentID,
		FlashcardsReviewed: r.FlashcardsReviewed,
		RetentionRate:      r.RetentionRate,
		StudyTimeMinutes:   r.StudyTimeMinutes,
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
	}
	if r.LastStudiedAt.Valid {
		p.LastStudiedAt = r.LastStudiedAt.Time.UTC()
	}
	return p
}

// ProgressStore implements store.ProgressStore on SQLite.
type ProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProgressStore creates a SQLite ProgressStore.
func NewProgressStore(db store.DBTX, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_progress_store")),
	}
}

var _ store.ProgressStore = (*ProgressStore)(nil)

const progressSelect = `SELECT user_id, document_id, flashcards_reviewed, retention_rate,
	study_time_minutes, last_studied_at, created_at, updated_at FROM study_progress `

func (s *ProgressStore) query(ctx context.Context, where string, args ...any) ([]*domain.StudyProgress, error) {
	rows, err := s.db.QueryContext(ctx, progressSelect+where, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var dest []progressRow
	if err := sqlx.StructScan(rows, &dest); err != nil {
		return nil, fmt.Errorf("scan study progress: %w", err)
	}
	out := make([]*domain.StudyProgress, 0, len(dest))
	for _, r := range dest {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// Get implements store.ProgressStore.Get
func (s *ProgressStore) Get(ctx context.Context, userID, documentID uuid.UUID) (*domain.StudyProgress, error) {
	out, err := s.query(ctx, `WHERE user_id = ? AND document_id = ?`, userID, documentID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, store.ErrProgressNotFound
	}
	return out[0], nil
}

// Upsert implements store.ProgressStore.Upsert
func (s *ProgressStore) Upsert(ctx context.Context, p *domain.StudyProgress) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var lastStudied sql.NullTime
	if !p.LastStudiedAt.IsZero() {
		lastStudied = sql.NullTime{Time: p.LastStudiedAt.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_progress (user_id, document_id, flashcards_reviewed, retention_rate,
			study_time_minutes, last_studied_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, document_id) DO UPDATE SET
			flashcards_reviewed = excluded.flashcards_reviewed,
			retention_rate = excluded.retention_rate,
			study_time_minutes = excluded.study_time_minutes,
			last_studied_at = excluded.last_studied_at,
			updated_at = excluded.updated_at`,
		p.UserID, p.DocumentID, p.FlashcardsReviewed, p.RetentionRate,
		p.StudyTimeMinutes, lastStudied, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to upsert study progress",
			slog.String("error", err.Error()),
			slog.String("user_id", p.UserID.String()))
		return MapError(err)
	}
	return nil
}

// ListByUser implements store.ProgressStore.ListByUser
func (s *ProgressStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudyProgress, error) {
	return s.query(ctx, `WHERE user_id = ? ORDER BY last_studied_at DESC NULLS LAST, document_id`, userID)
}

// WithTx implements store.ProgressStore.WithTx
func (s *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &ProgressStore{db: tx, logger: s.logger}
}
