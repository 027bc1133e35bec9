package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/service"
)

var _ service.CardService = (*MockCardService)(nil)

// MockCardService implements service.CardService for testing
type MockCardService struct {
	// Custom behavior functions
	CreateCardsFn       func(ctx context.Context, userID, documentID uuid.UUID, contents []domain.CardContent) ([]*domain.Card, error)
	GetCardFn           func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	ListCardsFn         func(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)
	UpdateCardContentFn func(ctx context.Context, userID, cardID uuid.UUID, content domain.CardContent) (*domain.Card, error)
	DeleteCardFn        func(ctx context.Context, userID, cardID uuid.UUID) error

	// Default return values
	Card         *domain.Card
	Cards        []*domain.Card
	DefaultError error
}

// CreateCards implements the CardService.CreateCards method
func (m *MockCardService) CreateCards(
	ctx context.Context,
	userID, documentID uuid.UUID,
	contents []domain.CardContent,
) ([]*domain.Card, error) {
	if m.CreateCardsFn != nil {
		return m.CreateCardsFn(ctx, userID, documentID, contents)
	}
	return m.Cards, m.DefaultError
}

// GetCard implements the CardService.GetCard method
func (m *MockCardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, userID, cardID)
	}
	return m.Card, m.DefaultError
}

// ListCards implements the CardService.ListCards method
func (m *MockCardService) ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, userID)
	}
	return m.Cards, m.DefaultError
}

// UpdateCardContent implements the CardService.UpdateCardContent method
func (m *MockCardService) UpdateCardContent(
	ctx context.Context,
	userID, cardID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	if m.UpdateCardContentFn != nil {
		return m.UpdateCardContentFn(ctx, userID, cardID, content)
	}
	return m.Card, m.DefaultError
}

// DeleteCard implements the CardService.DeleteCard method
func (m *MockCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, userID, cardID)
	}
	return m.DefaultError
}
