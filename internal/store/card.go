package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a single card.
	// Returns validation errors if the card is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards to the store.
	// IMPORTANT: This method MUST be run within a transaction for atomicity.
	// Use the WithTx method with store.RunInTransaction:
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//   })
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetByIDForUpdate retrieves a card and locks its row until the surrounding
	// transaction ends. Implementations without row locks behave like GetByID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByUser returns every card owned by a learner, in creation order.
	// An empty slice is returned when the learner has no cards.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// Update writes the content fields (question, answer, category, difficulty)
	// of an existing card. The review state is left untouched.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// UpdateReviewState persists a new review state for a card in a single
	// statement, so interval, repetitions, ease factor, last quality and due
	// date are never written partially. reviewedAt becomes last_reviewed_at and
	// updatedAt the card's updated_at.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateReviewState(
		ctx context.Context,
		cardID uuid.UUID,
		state domain.ReviewState,
		reviewedAt, updatedAt time.Time,
	) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
