package srs

import (
	"math"
	"time"

	"github.com/phrazzld/studydeck/internal/domain"
)

// easeDelta returns the SM-2 ease adjustment for a quality rating.
//
// A perfect recall (5) adds 0.1, a correct but effortful recall (3) subtracts 0.14
// and a blackout (0) subtracts 0.8. The adjustment applies on both pass and fail.
func easeDelta(q domain.Quality) float64 {
	miss := float64(domain.MaxQuality - q)
	return 0.1 - miss*(0.08+miss*0.02)
}

// calculateNewEaseFactor applies the quality adjustment and clamps the result
// to params.MinEaseFactor.
func calculateNewEaseFactor(currentEF float64, q domain.Quality, params *Params) float64 {
	return math.Max(params.MinEaseFactor, currentEF+easeDelta(q))
}

// calculateNewInterval determines the next interval in days and the new repetition count.
//
// Algorithm behavior:
//   - Lapse (q below the pass threshold): interval resets to params.LapseInterval
//     and repetitions to 0
//   - First successful review: params.FirstInterval
//   - Second successful review: params.SecondInterval
//   - Later reviews: round(interval * ease), never less than one day
//
// Only the third branch reads currentInterval, so a fresh card with interval 0
// schedules correctly.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	q domain.Quality,
	params *Params,
) (int, int) {
	if q < params.PassThreshold {
		return params.LapseInterval, 0
	}

	var interval int
	switch repetitions {
	case 0:
		interval = params.FirstInterval
	case 1:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(currentInterval) * easeFactor))
	}
	if interval < 1 {
		interval = 1
	}

	return interval, repetitions + 1
}

// calculateNextState builds the state that follows a review of current at now.
// current is taken by value and never modified.
func calculateNextState(
	current domain.ReviewState,
	q domain.Quality,
	now time.Time,
	params *Params,
) domain.ReviewState {
	ef := calculateNewEaseFactor(current.EaseFactor, q, params)
	interval, reps := calculateNewInterval(current.Interval, current.Repetitions, ef, q, params)

	return domain.ReviewState{
		Interval:    interval,
		Repetitions: reps,
		EaseFactor:  ef,
		LastQuality: q,
		DueDate:     now.AddDate(0, 0, interval),
	}
}
