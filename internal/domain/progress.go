package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrProgressUserIDEmpty is returned when study progress has no learner.
var ErrProgressUserIDEmpty = errors.New("progress user ID cannot be empty")

// StudyProgress aggregates a learner's review activity for one study document.
// Cards without a document are tracked under uuid.Nil.
type StudyProgress struct {
	UserID             uuid.UUID `json:"user_id"`
	DocumentID         uuid.UUID `json:"document_id"`
	FlashcardsReviewed int       `json:"flashcards_reviewed"`
	RetentionRate      float64   `json:"retention_rate"` // 0..100
	StudyTimeMinutes   int       `json:"study_time_minutes"`
	LastStudiedAt      time.Time `json:"last_studied_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewStudyProgress returns empty progress for a learner and document.
func NewStudyProgress(userID, documentID uuid.UUID, now time.Time) (*StudyProgress, error) {
	now = now.UTC()
	p := &StudyProgress{
		UserID:     userID,
		DocumentID: documentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the StudyProgress has valid data.
func (p *StudyProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrProgressUserIDEmpty
	}
	if p.FlashcardsReviewed < 0 {
		return NewValidationError("flashcards_reviewed", "cannot be negative", ErrValidation)
	}
	if p.RetentionRate < 0 || p.RetentionRate > 100 {
		return NewValidationError("retention_rate", "must be between 0 and 100", ErrValidation)
	}
	return nil
}

// WithReview returns a copy of the progress with one more reviewed flashcard.
// Retention reflects only the latest review: 100 when it passed, 0 otherwise.
func (p StudyProgress) WithReview(q Quality, now time.Time) StudyProgress {
	now = now.UTC()
	p.FlashcardsReviewed++
	if q.Passing() {
		p.RetentionRate = 100
	} else {
		p.RetentionRate = 0
	}
	p.LastStudiedAt = now
	p.UpdatedAt = now
	return p
}
