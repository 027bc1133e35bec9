package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/store"
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// CardRepository defines the repository interface for the service layer
type CardRepository interface {
	// CreateMultiple saves multiple cards to the store
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByUser retrieves every card owned by a learner
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// Update writes the content fields of an existing card
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) CardRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// ProgressRepository defines the repository interface for study progress
type ProgressRepository interface {
	// Get retrieves progress for a learner and document
	Get(ctx context.Context, userID, documentID uuid.UUID) (*domain.StudyProgress, error)

	// Upsert inserts or replaces progress for a learner and document
	Upsert(ctx context.Context, p *domain.StudyProgress) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ProgressRepository
}

// CardService provides card-related operations.
// Every operation is scoped to a learner; cards owned by someone else are
// reported as ErrNotOwned.
type CardService interface {
	// CreateCards creates cards for a learner under one document and makes sure a
	// progress row exists for that document, all in a single transaction.
	CreateCards(
		ctx context.Context,
		userID, documentID uuid.UUID,
		contents []domain.CardContent,
	) ([]*domain.Card, error)

	// GetCard retrieves a card by its ID
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// ListCards returns all cards of a learner in creation order
	ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// UpdateCardContent replaces question, answer, category and difficulty.
	// The review state is preserved.
	UpdateCardContent(
		ctx context.Context,
		userID, cardID uuid.UUID,
		content domain.CardContent,
	) (*domain.Card, error)

	// DeleteCard removes a card
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	cardRepo     CardRepository
	progressRepo ProgressRepository
	clock        srs.Clock
	logger       *slog.Logger
	initialEase  float64
}

// CardServiceOption customizes a CardService.
type CardServiceOption func(*cardServiceImpl)

// WithInitialEaseFactor sets the ease factor new cards start with.
// Non-positive values keep domain.DefaultEaseFactor.
func WithInitialEaseFactor(ef float64) CardServiceOption {
	return func(s *cardServiceImpl) {
		if ef > 0 {
			s.initialEase = ef
		}
	}
}

// NewCardService creates a new CardService
// It returns an error if any of the required dependencies are nil.
// A nil clock falls back to the system clock.
func NewCardService(
	cardRepo CardRepository,
	progressRepo ProgressRepository,
	clock srs.Clock,
	logger *slog.Logger,
	opts ...CardServiceOption,
) (CardService, error) {
	if cardRepo == nil {
		return nil, domain.NewValidationError("cardRepo", "cannot be nil", domain.ErrValidation)
	}
	if progressRepo == nil {
		return nil, domain.NewValidationError("progressRepo", "cannot be nil", domain.ErrValidation)
	}

	if clock == nil {
		clock = srs.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &cardServiceImpl{
		cardRepo:     cardRepo,
		progressRepo: progressRepo,
		clock:        clock,
		logger:       logger.With(slog.String("component", "card_service")),
		initialEase:  domain.DefaultEaseFactor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateCards implements CardService.CreateCards
func (s *cardServiceImpl) CreateCards(
	ctx context.Context,
	userID, documentID uuid.UUID,
	contents []domain.CardContent,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(contents) == 0 {
		log.Debug("no cards to create", slog.String("user_id", userID.String()))
		return nil, ErrNoCards
	}

	now := s.clock.Now()
	cards := make([]*domain.Card, 0, len(contents))
	for i, content := range contents {
		card, err := domain.NewCard(userID, documentID, content, now)
		if err != nil {
			log.Warn("invalid card content",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.Int("index", i))
			return nil, NewCardServiceError("create_cards", fmt.Sprintf("card %d is invalid", i), err)
		}
		card.Review.EaseFactor = s.initialEase
		cards = append(cards, card)
	}

	log.Debug("creating cards in transaction",
		slog.String("user_id", userID.String()),
		slog.Int("card_count", len(cards)))

	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txCardRepo := s.cardRepo.WithTx(tx)
		txProgressRepo := s.progressRepo.WithTx(tx)

		if err := txCardRepo.CreateMultiple(ctx, cards); err != nil {
			log.Error("failed to create cards in transaction",
				slog.String("error", err.Error()))
			return NewCardServiceError("create_cards", "failed to save cards", err)
		}

		_, err := txProgressRepo.Get(ctx, userID, documentID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrProgressNotFound) {
			return NewCardServiceError("create_cards", "failed to read study progress", err)
		}

		progress, err := domain.NewStudyProgress(userID, documentID, now)
		if err != nil {
			return NewCardServiceError("create_cards", "failed to create progress object", err)
		}
		if err := txProgressRepo.Upsert(ctx, progress); err != nil {
			log.Error("failed to save study progress in transaction",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.String("document_id", documentID.String()))
			return NewCardServiceError("create_cards", "failed to save study progress", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("successfully created cards",
		slog.String("user_id", userID.String()),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

// getOwnedCard loads a card and checks that userID owns it.
func (s *cardServiceImpl) getOwnedCard(
	ctx context.Context,
	repo CardRepository,
	operation string,
	userID, cardID uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := repo.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card not found", slog.String("card_id", cardID.String()))
			return nil, NewCardServiceError(operation, "card not found", store.ErrCardNotFound)
		}
		log.Error("failed to retrieve card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewCardServiceError(operation, "failed to retrieve card", err)
	}

	if !card.OwnedBy(userID) {
		log.Warn("card owned by another learner",
			slog.String("card_id", cardID.String()),
			slog.String("user_id", userID.String()),
			slog.String("owner_id", card.UserID.String()))
		return nil, NewCardServiceError(operation, "card is owned by another user", ErrNotOwned)
	}

	return card, nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return s.getOwnedCard(ctx, s.cardRepo, "get_card", userID, cardID)
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewCardServiceError("list_cards", "failed to list cards", err)
	}

	log.Debug("listed cards",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// UpdateCardContent implements CardService.UpdateCardContent
func (s *cardServiceImpl) UpdateCardContent(
	ctx context.Context,
	userID, cardID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txCardRepo := s.cardRepo.WithTx(tx)

		card, err := s.getOwnedCard(ctx, txCardRepo, "update_card_content", userID, cardID)
		if err != nil {
			return err
		}

		if err := card.UpdateContent(content, s.clock.Now()); err != nil {
			log.Warn("invalid card content",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return NewCardServiceError("update_card_content", "invalid content", err)
		}

		if err := txCardRepo.Update(ctx, card); err != nil {
			log.Error("failed to update card",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return NewCardServiceError("update_card_content", "failed to update card", err)
		}

		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("card content updated",
		slog.String("card_id", cardID.String()),
		slog.String("user_id", userID.String()))
	return updated, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txCardRepo := s.cardRepo.WithTx(tx)

		if _, err := s.getOwnedCard(ctx, txCardRepo, "delete_card", userID, cardID); err != nil {
			return err
		}

		if err := txCardRepo.Delete(ctx, cardID); err != nil {
			if store.IsNotFoundError(err) {
				return NewCardServiceError("delete_card", "card not found", store.ErrCardNotFound)
			}
			log.Error("failed to delete card",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return NewCardServiceError("delete_card", "failed to delete card", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("card deleted",
		slog.String("card_id", cardID.String()),
		slog.String("user_id", userID.String()))
	return nil
}
