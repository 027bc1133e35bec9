package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewReviewState(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	state := NewReviewState(now)

	if !state.IsNew() {
		t.Errorf("Expected a new state, got %+v", state)
	}
	if state.EaseFactor != DefaultEaseFactor {
		t.Errorf("Expected ease factor %v, got %v", DefaultEaseFactor, state.EaseFactor)
	}
	if !state.DueDate.Equal(now) {
		t.Errorf("Expected due date %v, got %v", now, state.DueDate)
	}
	if err := state.Validate(); err != nil {
		t.Errorf("Expected new state to be valid, got %v", err)
	}
}

func TestReviewStateValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	testCases := []struct {
		name    string
		state   ReviewState
		wantErr bool
	}{
		{"fresh", ReviewState{EaseFactor: 2.5}, false},
		{"after first pass", ReviewState{Interval: 1, Repetitions: 1, EaseFactor: 2.5}, false},
		{"low ease is repaired by the scheduler", ReviewState{Interval: 1, Repetitions: 1, EaseFactor: 1.0}, false},
		{"negative ease", ReviewState{EaseFactor: -0.1}, true},
		{"negative repetitions", ReviewState{Repetitions: -2, EaseFactor: 2.5}, true},
		{"negative interval", ReviewState{Interval: -1, EaseFactor: 2.5}, true},
		{"growth without interval", ReviewState{Interval: 0, Repetitions: 3, EaseFactor: 2.5}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.state.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidReviewState) {
				t.Errorf("Expected %v, got %v", ErrInvalidReviewState, err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
