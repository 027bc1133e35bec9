package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/store"
)

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

func (a *cardRepositoryAdapter) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	return a.cardStore.CreateMultiple(ctx, cards)
}

func (a *cardRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return a.cardStore.GetByID(ctx, id)
}

func (a *cardRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	return a.cardStore.ListByUser(ctx, userID)
}

func (a *cardRepositoryAdapter) Update(ctx context.Context, card *domain.Card) error {
	return a.cardStore.Update(ctx, card)
}

func (a *cardRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.cardStore.Delete(ctx, id)
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

func (a *progressRepositoryAdapter) WithTx(tx *sql.Tx) ProgressRepository {
	return &progressRepositoryAdapter{progressStore: a.progressStore.WithTx(tx)}
}
