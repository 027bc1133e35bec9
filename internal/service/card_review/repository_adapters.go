package card_review

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/store"
)

// CardRepository defines the interface for repositories that can provide
// card data and support transactions.
type CardRepository interface {
	// GetByIDForUpdate retrieves a card and locks it for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByUser retrieves every card owned by a learner.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// UpdateReviewState persists a card's new review state.
	UpdateReviewState(
		ctx context.Context,
		cardID uuid.UUID,
		state domain.ReviewState,
		reviewedAt, updatedAt time.Time,
	) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardRepository

	// DB returns the underlying database connection.
	DB() *sql.DB
}

// ProgressRepository defines the interface for repositories that can provide
// study progress data and support transactions.
type ProgressRepository interface {
	Get(ctx context.Context, userID, documentID uuid.UUID) (*domain.StudyProgress, error)
	Upsert(ctx context.Context, p *domain.StudyProgress) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudyProgress, error)
	WithTx(tx *sql.Tx) ProgressRepository
}

// NewCardRepositoryAdapter creates a new adapter that allows a store.CardStore
// to be used where a CardRepository is expected.
func NewCardRepositoryAdapter(cardStore store.CardStore, db *sql.DB) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: cardStore,
		db:        db,
	}
}

// cardRepositoryAdapter adapts a store.CardStore to the CardRepository interface
type cardRepositoryAdapter struct {
	cardStore store.CardStore
	db        *sql.DB
}

func (a *cardRepositoryAdapter) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return a.cardStore.GetByIDForUpdate(ctx, id)
}

func (a *cardRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	return a.cardStore.ListByUser(ctx, userID)
}

func (a *cardRepositoryAdapter) UpdateReviewState(
	ctx context.Context,
	cardID uuid.UUID,
	state domain.ReviewState,
	reviewedAt, updatedAt time.Time,
) error {
	return a.cardStore.UpdateReviewState(ctx, cardID, state, reviewedAt, updatedAt)
}

// WithTx implements CardRepository.WithTx
func (a *cardRepositoryAdapter) WithTx(tx *sql.Tx) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: a.cardStore.WithTx(tx),
		db:        a.db,
	}
}

// DB implements CardRepository.DB
func (a *cardRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewProgressRepositoryAdapter creates a new adapter that allows a store.ProgressStore
// to be used where a ProgressRepository is expected.
func NewProgressRepositoryAdapter(progressStore store.ProgressStore) ProgressRepository {
	return &progressRepositoryAdapter{progressStore: progressStore}
}

// progressRepositoryAdapter adapts a store.ProgressStore to the ProgressRepository interface
type progressRepositoryAdapter struct {
	progressStore store.ProgressStore
}

func (a *progressRepositoryAdapter) Get(
	ctx context.Context,
	userID, documentID uuid.UUID,
) (*domain.StudyProgress, error) {
	return a.progressStore.Get(ctx, userID, documentID)
}

func (a *progressRepositoryAdapter) Upsert(ctx context.Context, p *domain.StudyProgress) error {
	return a.progressStore.Upsert(ctx, p)
}

func (a *progressRepositoryAdapter) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.StudyProgress, error) {
	return a.progressStore.ListByUser(ctx, userID)
}

// WithTx implements ProgressRepository.WithTx
func (a *progressRepositoryAdapter) WithTx(tx *sql.Tx) ProgressRepository {
	return &progressRepositoryAdapter{progressStore: a.progressStore.WithTx(tx)}
}
