package domain

import (
	"fmt"
	"time"
)

// Scheduling defaults shared by new cards and the scheduler.
const (
	// DefaultEaseFactor is the neutral starting multiplier of a new card.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor the ease factor never drops below.
	MinEaseFactor = 1.3
)

// ReviewState is the spaced-repetition scheduling state of a single card.
// It is owned by the card, changed only by the scheduler and persisted as a unit.
type ReviewState struct {
	Interval    int       `json:"interval"`     // days until the next review
	Repetitions int       `json:"repetitions"`  // consecutive passing reviews since the last lapse
	EaseFactor  float64   `json:"ease_factor"`  // interval growth multiplier, >= 1.3 after any review
	LastQuality Quality   `json:"last_quality"` // most recent rating, informational
	DueDate     time.Time `json:"due_date"`     // when the card becomes eligible again
}

// NewReviewState returns the state of a card that has never been reviewed.
// The card is due immediately.
func NewReviewState(now time.Time) ReviewState {
	return ReviewState{
		Interval:    0,
		Repetitions: 0,
		EaseFactor:  DefaultEaseFactor,
		LastQuality: QualityBlackout,
		DueDate:     now,
	}
}

// Validate checks the structural invariants of the state.
// A state whose repetition count requires a previous interval must carry one of at least a day.
func (s ReviewState) Validate() error {
	if s.EaseFactor < 0 {
		return fmt.Errorf("%w: ease factor %.2f is negative", ErrInvalidReviewState, s.EaseFactor)
	}
	if s.Repetitions < 0 {
		return fmt.Errorf("%w: repetitions %d is negative", ErrInvalidReviewState, s.Repetitions)
	}
	if s.Interval < 0 {
		return fmt.Errorf("%w: interval %d is negative", ErrInvalidReviewState, s.Interval)
	}
	if s.Repetitions >= 2 && s.Interval < 1 {
		return fmt.Errorf(
			"%w: interval %d with %d repetitions",
			ErrInvalidReviewState,
			s.Interval,
			s.Repetitions,
		)
	}
	return nil
}

// IsNew reports whether the card has never completed a review.
func (s ReviewState) IsNew() bool {
	return s.Interval == 0 && s.Repetitions == 0
}
