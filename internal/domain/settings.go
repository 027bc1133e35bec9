package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidReminderHour is returned when a reminder hour is outside 0..23.
var ErrInvalidReminderHour = errors.New("reminder hour must be between 0 and 23")

// LearnerSettings holds the per-learner notification preferences.
type LearnerSettings struct {
	UserID         uuid.UUID `json:"user_id"`
	StudyReminders bool      `json:"study_reminders"`
	ReminderHour   *int      `json:"reminder_hour,omitempty"` // UTC hour; nil means any hour
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DefaultLearnerSettings returns settings for a learner who never changed them.
// Reminders are off until the learner opts in.
func DefaultLearnerSettings(userID uuid.UUID) *LearnerSettings {
	return &LearnerSettings{UserID: userID}
}

// Validate checks if the LearnerSettings has valid data.
func (s *LearnerSettings) Validate() error {
	if s.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if s.ReminderHour != nil && (*s.ReminderHour < 0 || *s.ReminderHour > 23) {
		return ErrInvalidReminderHour
	}
	return nil
}

// WantsReminderAt reports whether a reminder should go out during the given UTC hour.
func (s *LearnerSettings) WantsReminderAt(hour int) bool {
	if !s.StudyReminders {
		return false
	}
	return s.ReminderHour == nil || *s.ReminderHour == hour
}
