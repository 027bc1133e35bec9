package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
)

// ProgressStore defines the interface for study progress persistence.
type ProgressStore interface {
	// Get retrieves progress for a learner and document.
	// Cards without a document use uuid.Nil as documentID.
	// Returns ErrProgressNotFound if no progress has been recorded yet.
	Get(ctx context.Context, userID, documentID uuid.UUID) (*domain.StudyProgress, error)

	// Upsert creates or replaces the progress row for (UserID, DocumentID).
	Upsert(ctx context.Context, progress *domain.StudyProgress) error

	// ListByUser returns all progress rows of a learner, most recently studied first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudyProgress, error)

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
