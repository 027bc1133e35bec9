package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/store"
)

// SettingsService reads and writes learner reminder preferences.
type SettingsService interface {
	// GetSettings returns the learner's settings, or the defaults when none were saved.
	GetSettings(ctx context.Context, userID uuid.UUID) (*domain.LearnerSettings, error)

	// UpdateSettings validates and stores the learner's settings.
	UpdateSettings(ctx context.Context, settings *domain.LearnerSettings) (*domain.LearnerSettings, error)
}

type settingsServiceImpl struct {
	settingsStore store.SettingsStore
	clock         srs.Clock
	logger        *slog.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(
	settingsStore store.SettingsStore,
	clock srs.Clock,
	logger *slog.Logger,
) (SettingsService, error) {
	if settingsStore == nil {
		return nil, domain.NewValidationError("settingsStore", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = srs.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &settingsServiceImpl{
		settingsStore: settingsStore,
		clock:         clock,
		logger:        logger.With(slog.String("component", "settings_service")),
	}, nil
}

func (s *settingsServiceImpl) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.LearnerSettings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	settings, err := s.settingsStore.Get(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if errors.Is(err, store.ErrSettingsNotFound) {
		log.Debug("no saved settings, using defaults", slog.String("user_id", userID.String()))
		return domain.DefaultLearnerSettings(userID), nil
	}

	log.Error("failed to load learner settings",
		slog.String("error", err.Error()),
		slog.String("user_id", userID.String()))
	return nil, NewCardServiceError("get_settings", "failed to load settings", err)
}

func (s *settingsServiceImpl) UpdateSettings(
	ctx context.Context,
	settings *domain.LearnerSettings,
) (*domain.LearnerSettings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		log.Warn("invalid learner settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return nil, err
	}

	updated := *settings
	updated.UpdatedAt = s.clock.Now()
	if err := s.settingsStore.Upsert(ctx, &updated); err != nil {
		log.Error("failed to save learner settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return nil, NewCardServiceError("update_settings", "failed to save settings", err)
	}

	return &updated, nil
}
