package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/service"
)

var _ service.SettingsService = (*MockSettingsService)(nil)

// MockSettingsService implements service.SettingsService for testing.
// Without custom functions it echoes saved settings back, like the real service.
type MockSettingsService struct {
	GetSettingsFn    func(ctx context.Context, userID uuid.UUID) (*domain.LearnerSettings, error)
	UpdateSettingsFn func(ctx context.Context, settings *domain.LearnerSettings) (*domain.LearnerSettings, error)

	DefaultError error
}

// GetSettings implements the SettingsService.GetSettings method
func (m *MockSettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.LearnerSettings, error) {
	if m.GetSettingsFn != nil {
		return m.GetSettingsFn(ctx, userID)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return domain.DefaultLearnerSettings(userID), nil
}

// UpdateSettings implements the SettingsService.UpdateSettings method
func (m *MockSettingsService) UpdateSettings(
	ctx context.Context,
	settings *domain.LearnerSettings,
) (*domain.LearnerSettings, error) {
	if m.UpdateSettingsFn != nil {
		return m.UpdateSettingsFn(ctx, settings)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return settings, nil
}
