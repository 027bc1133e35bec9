package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
)

// SettingsStore defines the interface for learner settings persistence.
type SettingsStore interface {
	// Get retrieves the settings of a learner.
	// Returns ErrSettingsNotFound if the learner never saved settings.
	Get(ctx context.Context, userID uuid.UUID) (*domain.LearnerSettings, error)

	// Upsert creates or replaces the settings of a learner.
	Upsert(ctx context.Context, settings *domain.LearnerSettings) error

	// ListReminderEnabled returns the settings of every learner with study reminders on.
	ListReminderEnabled(ctx context.Context) ([]*domain.LearnerSettings, error)
}
