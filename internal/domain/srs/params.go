package srs

import (
	"fmt"

	"github.com/phrazzld/studydeck/internal/domain"
)

// Params defines all configurable parameters for the SM-2 scheduler
type Params struct {
	// Ease limits
	MinEaseFactor     float64
	InitialEaseFactor float64

	// Ratings at or above this threshold count as a successful recall
	PassThreshold domain.Quality

	// Fixed intervals in days
	FirstInterval  int
	SecondInterval int
	LapseInterval  int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	MinEaseFactor     float64
	InitialEaseFactor float64
	PassThreshold     domain.Quality
	FirstInterval     int
	SecondInterval    int
	LapseInterval     int
}

// NewDefaultParams creates a new Params instance with the classic SM-2 values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     domain.MinEaseFactor,
		InitialEaseFactor: domain.DefaultEaseFactor,
		PassThreshold:     domain.PassingQuality,
		FirstInterval:     1,
		SecondInterval:    6,
		LapseInterval:     1,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}
	if config.PassThreshold > 0 {
		params.PassThreshold = config.PassThreshold
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}

	return params
}

// Validate reports whether the parameters can produce well-formed review states.
func (p *Params) Validate() error {
	if p.MinEaseFactor < domain.MinEaseFactor {
		return fmt.Errorf("min ease factor %v is below the floor %v", p.MinEaseFactor, domain.MinEaseFactor)
	}
	if p.InitialEaseFactor < p.MinEaseFactor {
		return fmt.Errorf("initial ease factor %v is below the minimum %v", p.InitialEaseFactor, p.MinEaseFactor)
	}
	if !p.PassThreshold.Valid() {
		return fmt.Errorf("pass threshold %d is outside the quality scale", p.PassThreshold)
	}
	if p.FirstInterval < 1 || p.SecondInterval < 1 || p.LapseInterval < 1 {
		return fmt.Errorf("intervals must be at least one day")
	}
	return nil
}
