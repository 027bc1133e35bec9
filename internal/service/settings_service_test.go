package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := service.NewSettingsService(nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := service.NewSettingsService(env.settings, srs.NewFixedClock(testNow), nil)
	require.NoError(t, err)

	userID := uuid.New()
	got, err := svc.GetSettings(ctx, userID)
	require.NoError(t, err)
	assert.False(t, got.StudyReminders, "reminders are opt-in")

	hour := 19
	saved, err := svc.UpdateSettings(ctx, &domain.LearnerSettings{
		UserID:         userID,
		StudyReminders: true,
		ReminderHour:   &hour,
	})
	require.NoError(t, err)
	assert.True(t, saved.UpdatedAt.Equal(testNow))

	got, err = svc.GetSettings(ctx, userID)
	require.NoError(t, err)
	assert.True(t, got.StudyReminders)
	require.NotNil(t, got.ReminderHour)
	assert.Equal(t, 19, *got.ReminderHour)

	bad := 30
	_, err = svc.UpdateSettings(ctx, &domain.LearnerSettings{UserID: userID, ReminderHour: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidReminderHour)
}
