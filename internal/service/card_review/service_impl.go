package card_review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/store"
)

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	cardRepo     CardRepository
	progressRepo ProgressRepository
	srsService   srs.Service
	clock        srs.Clock
	logger       *slog.Logger
}

// NewCardReviewService creates a new CardReviewService implementation.
// A nil clock falls back to srs.SystemClock.
func NewCardReviewService(
	cardRepo CardRepository,
	progressRepo ProgressRepository,
	srsService srs.Service,
	clock srs.Clock,
	logger *slog.Logger,
) (CardReviewService, error) {
	if cardRepo == nil {
		return nil, domain.NewValidationError("cardRepo", "cannot be nil", domain.ErrValidation)
	}
	if progressRepo == nil {
		return nil, domain.NewValidationError("progressRepo", "cannot be nil", domain.ErrValidation)
	}
	if srsService == nil {
		return nil, domain.NewValidationError("srsService", "cannot be nil", domain.ErrValidation)
	}

	if clock == nil {
		clock = srs.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardReviewServiceImpl{
		cardRepo:     cardRepo,
		progressRepo: progressRepo,
		srsService:   srsService,
		clock:        clock,
		logger:       logger.With(slog.String("component", "card_review_service")),
	}, nil
}

// ListDue implements CardReviewService.ListDue.
func (s *cardReviewServiceImpl) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, newServiceError(OpListDue, "failed to list cards", err)
	}

	due := make([]*domain.Card, 0)
	for card := range srs.SelectDue(cards, s.clock.Now()) {
		if limit > 0 && len(due) == limit {
			break
		}
		due = append(due, card)
	}

	log.Debug("selected due cards",
		slog.String("user_id", userID.String()),
		slog.Int("total", len(cards)),
		slog.Int("due", len(due)))
	return due, nil
}

// GetNextCard implements CardReviewService.GetNextCard.
func (s *cardReviewServiceImpl) GetNextCard(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving next review card", slog.String("user_id", userID.String()))

	due, err := s.ListDue(ctx, userID, 1)
	if err != nil {
		return nil, NewGetNextCardError("failed to select due cards", err)
	}
	if len(due) == 0 {
		log.Debug("no cards due for review", slog.String("user_id", userID.String()))
		return nil, ErrNoCardsDue
	}

	log.Debug("successfully retrieved next review card",
		slog.String("user_id", userID.String()),
		slog.String("card_id", due[0].ID.String()))
	return due[0], nil
}

// lockOwnedCard loads and locks a card inside a transaction, checking ownership.
func (s *cardReviewServiceImpl) lockOwnedCard(
	ctx context.Context,
	cardRepo CardRepository,
	userID, cardID uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := cardRepo.GetByIDForUpdate(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("card not found for review",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if !card.OwnedBy(userID) {
		log.Warn("user does not own card",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("owner_id", card.UserID.String()))
		return nil, ErrCardNotOwned
	}
	return card, nil
}

// SubmitAnswer implements CardReviewService.SubmitAnswer.
func (s *cardReviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	answer ReviewAnswer,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review answer",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("quality", int(answer.Quality)))

	if !answer.Quality.Valid() {
		log.Warn("invalid review quality",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.Int("quality", int(answer.Quality)))
		return nil, fmt.Errorf("%w: %d", ErrInvalidAnswer, answer.Quality)
	}

	now := s.clock.Now()
	var reviewed *domain.Card
	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		cardRepo := s.cardRepo.WithTx(tx)
		progressRepo := s.progressRepo.WithTx(tx)

		card, err := s.lockOwnedCard(ctx, cardRepo, userID, cardID)
		if err != nil {
			return err
		}

		next, err := s.srsService.ComputeNextState(card.Review, answer.Quality, now)
		if err != nil {
			log.Error("failed to compute next review state",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return NewSubmitAnswerError("failed to compute next review state", err)
		}

		if err := cardRepo.UpdateReviewState(ctx, cardID, next, now, now); err != nil {
			return NewSubmitAnswerError("failed to save review state", err)
		}

		if err := s.recordProgress(ctx, progressRepo, card, answer.Quality, now); err != nil {
			return NewSubmitAnswerError("failed to update study progress", err)
		}

		reviewedAt := now
		card.Review = next
		card.LastReviewedAt = &reviewedAt
		card.UpdatedAt = now
		reviewed = card
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrCardNotOwned) {
			return nil, err
		}

		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	log.Info("successfully processed review answer",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("quality", int(answer.Quality)),
		slog.Float64("ease_factor", reviewed.Review.EaseFactor),
		slog.Int("interval", reviewed.Review.Interval),
		slog.Time("due_date", reviewed.Review.DueDate))

	return reviewed, nil
}

// recordProgress adds one review to the progress of the card's document.
func (s *cardReviewServiceImpl) recordProgress(
	ctx context.Context,
	progressRepo ProgressRepository,
	card *domain.Card,
	quality domain.Quality,
	now time.Time,
) error {
	progress, err := progressRepo.Get(ctx, card.UserID, card.DocumentID)
	if err != nil {
		if !errors.Is(err, store.ErrProgressNotFound) {
			return err
		}
		progress, err = domain.NewStudyProgress(card.UserID, card.DocumentID, now)
		if err != nil {
			return err
		}
	}

	updated := progress.WithReview(quality, now)
	return progressRepo.Upsert(ctx, &updated)
}

// PostponeCard implements CardReviewService.PostponeCard.
func (s *cardReviewServiceImpl) PostponeCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	days int,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		log.Warn("invalid postpone request",
			slog.String("card_id", cardID.String()),
			slog.Int("days", days))
		return nil, fmt.Errorf("%w: %d", ErrInvalidPostpone, days)
	}

	now := s.clock.Now()
	var postponed *domain.Card
	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		cardRepo := s.cardRepo.WithTx(tx)

		card, err := s.lockOwnedCard(ctx, cardRepo, userID, cardID)
		if err != nil {
			return err
		}

		next, err := s.srsService.PostponeReview(card.Review, days, now)
		if err != nil {
			return NewPostponeCardError("failed to postpone review", err)
		}

		// A never-reviewed card records the postponement as its last touch.
		reviewedAt := now
		if card.LastReviewedAt != nil {
			reviewedAt = *card.LastReviewedAt
		}
		if err := cardRepo.UpdateReviewState(ctx, cardID, next, reviewedAt, now); err != nil {
			return NewPostponeCardError("failed to save review state", err)
		}

		card.Review = next
		card.LastReviewedAt = &reviewedAt
		card.UpdatedAt = now
		postponed = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("card postponed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("days", days),
		slog.Time("due_date", postponed.Review.DueDate))
	return postponed, nil
}

// GetProgress implements CardReviewService.GetProgress.
func (s *cardReviewServiceImpl) GetProgress(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.StudyProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list study progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, newServiceError(OpGetProgress, "failed to list progress", err)
	}

	return progress, nil
}
