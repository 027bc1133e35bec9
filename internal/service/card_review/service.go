package card_review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/store"
)

// ReviewAnswer represents a learner's self-rating of a flashcard review.
type ReviewAnswer struct {
	Quality domain.Quality `json:"quality"` // 0..5
}

// CardReviewService provides methods for reviewing flashcards
// using the SM-2 spaced repetition scheduler.
type CardReviewService interface {
	// ListDue returns the learner's due cards, oldest due date first.
	// A limit of zero or less returns every due card.
	ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error)

	// GetNextCard retrieves the card a learner should review next.
	//
	// Returns:
	//   - (*domain.Card, nil): The most overdue card
	//   - (nil, ErrNoCardsDue): If the user has no cards due for review
	//   - (nil, error): Any other error, typically from the database
	GetNextCard(ctx context.Context, userID uuid.UUID) (*domain.Card, error)

	// SubmitAnswer processes a learner's rating for a flashcard and persists the
	// next review state computed by the scheduler.
	//
	// This method performs several operations within a single transaction:
	// 1. Locks the card and verifies it belongs to the user
	// 2. Computes the next review state from the rating
	// 3. Writes the new state and updates the learner's study progress
	//
	// Returns:
	//   - (*domain.Card, nil): The card carrying its new review state
	//   - (nil, ErrInvalidAnswer): If the rating is outside 0..5
	//   - (nil, ErrCardNotFound): If the card does not exist
	//   - (nil, ErrCardNotOwned): If the user does not own the card
	//   - (nil, error): Any other error, typically from the database
	SubmitAnswer(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		answer ReviewAnswer,
	) (*domain.Card, error)

	// PostponeCard pushes a card's due date back by a whole number of days
	// without touching its interval, repetitions or ease factor.
	PostponeCard(ctx context.Context, userID, cardID uuid.UUID, days int) (*domain.Card, error)

	// GetProgress returns the learner's study progress per document.
	GetProgress(ctx context.Context, userID uuid.UUID) ([]*domain.StudyProgress, error)
}

// Common error types for CardReviewService
var (
	// ErrNoCardsDue indicates that the user has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = store.ErrCardNotFound

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidAnswer indicates an invalid rating was provided.
	// It wraps srs.ErrInvalidQuality.
	ErrInvalidAnswer = fmt.Errorf("invalid answer: %w", srs.ErrInvalidQuality)

	// ErrInvalidPostpone indicates a postpone request of less than one day.
	ErrInvalidPostpone = fmt.Errorf("invalid postpone: %w", srs.ErrInvalidDays)
)

// Operation names carried by ServiceError.
const (
	OpListDue      = "list_due"
	OpGetNextCard  = "get_next_card"
	OpSubmitAnswer = "submit_answer"
	OpPostponeCard = "postpone_card"
	OpGetProgress  = "get_progress"
)

// ServiceError records which review operation failed. Consumers match it
// with errors.As and inspect Operation.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(op, message string, err error) *ServiceError {
	return &ServiceError{Operation: op, Message: message, Err: err}
}

// NewSubmitAnswerError returns a ServiceError for OpSubmitAnswer.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return newServiceError(OpSubmitAnswer, message, err)
}

// NewGetNextCardError returns a ServiceError for OpGetNextCard.
func NewGetNextCardError(message string, err error) *ServiceError {
	return newServiceError(OpGetNextCard, message, err)
}

// NewPostponeCardError returns a ServiceError for OpPostponeCard.
func NewPostponeCardError(message string, err error) *ServiceError {
	return newServiceError(OpPostponeCard, message, err)
}
