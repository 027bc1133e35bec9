package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/studydeck/internal/domain"
)

// Common errors
var (
	// ErrInvalidQuality is returned when a rating is outside 0..5.
	ErrInvalidQuality = domain.ErrInvalidQuality
	// ErrInvalidState is returned when the supplied review state is malformed.
	ErrInvalidState = domain.ErrInvalidReviewState
	ErrInvalidDays  = errors.New("postpone days must be at least 1")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// ComputeNextState returns the review state that follows a review of
	// the given quality at time now.
	ComputeNextState(
		current domain.ReviewState,
		quality domain.Quality,
		now time.Time,
	) (domain.ReviewState, error)

	// PostponeReview pushes the due date forward by a number of days
	PostponeReview(
		current domain.ReviewState,
		days int,
		now time.Time,
	) (domain.ReviewState, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, errors.New("srs params cannot be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid srs params: %w", err)
	}
	return &defaultService{
		params: params,
	}, nil
}

// ComputeNextState implements the Service interface
func (s *defaultService) ComputeNextState(
	current domain.ReviewState,
	quality domain.Quality,
	now time.Time,
) (domain.ReviewState, error) {
	if err := quality.Validate(); err != nil {
		return domain.ReviewState{}, err
	}

	if err := current.Validate(); err != nil {
		return domain.ReviewState{}, err
	}

	return calculateNextState(current, quality, now, s.params), nil
}

// PostponeReview implements the Service interface for postponing reviews.
// The shift is measured from the later of the current due date and now, so
// postponing an overdue card still moves it into the future.
func (s *defaultService) PostponeReview(
	current domain.ReviewState,
	days int,
	now time.Time,
) (domain.ReviewState, error) {
	if days < 1 {
		return domain.ReviewState{}, ErrInvalidDays
	}

	if err := current.Validate(); err != nil {
		return domain.ReviewState{}, err
	}

	from := current.DueDate
	if from.Before(now) {
		from = now
	}

	next := current
	next.DueDate = from.AddDate(0, 0, days)
	return next, nil
}
