package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/service/card_review"
)

var _ card_review.CardReviewService = (*MockCardReviewService)(nil)

// MockCardReviewService implements card_review.CardReviewService for testing
type MockCardReviewService struct {
	// Custom behavior functions
	ListDueFn      func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error)
	GetNextCardFn  func(ctx context.Context, userID uuid.UUID) (*domain.Card, error)
	SubmitAnswerFn func(ctx context.Context, userID, cardID uuid.UUID, answer card_review.ReviewAnswer) (*domain.Card, error)
	PostponeCardFn func(ctx context.Context, userID, cardID uuid.UUID, days int) (*domain.Card, error)
	GetProgressFn  func(ctx context.Context, userID uuid.UUID) ([]*domain.StudyProgress, error)

	// Default response values
	DueCards    []*domain.Card
	NextCard    *domain.Card
	UpdatedCard *domain.Card
	Progress    []*domain.StudyProgress
	Err         error

	// Call tracking for verification
	SubmitAnswerCalls struct {
		mu      sync.Mutex
		Count   int
		UserIDs []uuid.UUID
		CardIDs []uuid.UUID
		Answers []card_review.ReviewAnswer
	}

	PostponeCardCalls struct {
		mu    sync.Mutex
		Count int
		Days  []int
	}
}

// ListDue implements the card_review.CardReviewService interface
func (m *MockCardReviewService) ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, userID, limit)
	}
	return m.DueCards, m.Err
}

// GetNextCard implements the card_review.CardReviewService interface
func (m *MockCardReviewService) GetNextCard(ctx context.Context, userID uuid.UUID) (*domain.Card, error) {
	if m.GetNextCardFn != nil {
		return m.GetNextCardFn(ctx, userID)
	}
	return m.NextCard, m.Err
}

// SubmitAnswer implements the card_review.CardReviewService interface
func (m *MockCardReviewService) SubmitAnswer(
	ctx context.Context,
	userID, cardID uuid.UUID,
	answer card_review.ReviewAnswer,
) (*domain.Card, error) {
	m.SubmitAnswerCalls.mu.Lock()
	m.SubmitAnswerCalls.Count++
	m.SubmitAnswerCalls.UserIDs = append(m.SubmitAnswerCalls.UserIDs, userID)
	m.SubmitAnswerCalls.CardIDs = append(m.SubmitAnswerCalls.CardIDs, cardID)
	m.SubmitAnswerCalls.Answers = append(m.SubmitAnswerCalls.Answers, answer)
	m.SubmitAnswerCalls.mu.Unlock()

	if m.SubmitAnswerFn != nil {
		return m.SubmitAnswerFn(ctx, userID, cardID, answer)
	}
	return m.UpdatedCard, m.Err
}

// PostponeCard implements the card_review.CardReviewService interface
func (m *MockCardReviewService) PostponeCard(ctx context.Context, userID, cardID uuid.UUID, days int) (*domain.Card, error) {
	m.PostponeCardCalls.mu.Lock()
	m.PostponeCardCalls.Count++
	m.PostponeCardCalls.Days = append(m.PostponeCardCalls.Days, days)
	m.PostponeCardCalls.mu.Unlock()

	if m.PostponeCardFn != nil {
		return m.PostponeCardFn(ctx, userID, cardID, days)
	}
	return m.UpdatedCard, m.Err
}

// GetProgress implements the card_review.CardReviewService interface
func (m *MockCardReviewService) GetProgress(ctx context.Context, userID uuid.UUID) ([]*domain.StudyProgress, error) {
	if m.GetProgressFn != nil {
		return m.GetProgressFn(ctx, userID)
	}
	return m.Progress, m.Err
}

// SubmitAnswerCount returns how many times SubmitAnswer was called.
func (m *MockCardReviewService) SubmitAnswerCount() int {
	m.SubmitAnswerCalls.mu.Lock()
	defer m.SubmitAnswerCalls.mu.Unlock()
	return m.SubmitAnswerCalls.Count
}

// LastAnswer returns the most recent answer passed to SubmitAnswer.
func (m *MockCardReviewService) LastAnswer() (card_review.ReviewAnswer, bool) {
	m.SubmitAnswerCalls.mu.Lock()
	defer m.SubmitAnswerCalls.mu.Unlock()
	if len(m.SubmitAnswerCalls.Answers) == 0 {
		return card_review.ReviewAnswer{}, false
	}
	return m.SubmitAnswerCalls.Answers[len(m.SubmitAnswerCalls.Answers)-1], true
}

// MockOption is a function type that configures a MockCardReviewService
type MockOption func(*MockCardReviewService)

// WithNextCard sets the default card to return from GetNextCard
func WithNextCard(card *domain.Card) MockOption {
	return func(m *MockCardReviewService) {
		m.NextCard = card
	}
}

// WithDueCards sets the default cards to return from ListDue
func WithDueCards(cards []*domain.Card) MockOption {
	return func(m *MockCardReviewService) {
		m.DueCards = cards
	}
}

// WithUpdatedCard sets the default card to return from SubmitAnswer and PostponeCard
func WithUpdatedCard(card *domain.Card) MockOption {
	return func(m *MockCardReviewService) {
		m.UpdatedCard = card
	}
}

// WithError sets the default error returned by every method
func WithError(err error) MockOption {
	return func(m *MockCardReviewService) {
		m.Err = err
	}
}

// NewMockCardReviewService creates a new MockCardReviewService with the given options
func NewMockCardReviewService(opts ...MockOption) *MockCardReviewService {
	mock := &MockCardReviewService{}
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}

// NewMockCardReviewServiceWithNoCardsDue returns a mock that simulates no cards due for review
func NewMockCardReviewServiceWithNoCardsDue() *MockCardReviewService {
	return NewMockCardReviewService(WithError(card_review.ErrNoCardsDue), WithDueCards([]*domain.Card{}))
}

// NewMockCardReviewServiceWithCardNotOwned returns a mock that simulates card not owned by user
func NewMockCardReviewServiceWithCardNotOwned() *MockCardReviewService {
	return NewMockCardReviewService(WithError(card_review.ErrCardNotOwned))
}
