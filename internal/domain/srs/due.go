package srs

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"time"

	"github.com/phrazzld/studydeck/internal/domain"
)

// IsDue reports whether a review state is eligible for review at now.
// The comparison is on the exact instant: a card due at 10:00 is not due at 09:59.
func IsDue(state domain.ReviewState, now time.Time) bool {
	return !state.DueDate.After(now)
}

// SelectDue yields the cards that are due at now, oldest due date first.
// Cards with equal due dates keep their input order. Nil cards are skipped.
//
// The sequence holds no state of its own: every range over it re-reads cards.
func SelectDue(cards []*domain.Card, now time.Time) iter.Seq[*domain.Card] {
	return func(yield func(*domain.Card) bool) {
		due := make([]*domain.Card, 0, len(cards))
		for _, c := range cards {
			if c != nil && IsDue(c.Review, now) {
				due = append(due, c)
			}
		}
		slices.SortStableFunc(due, func(a, b *domain.Card) int {
			return a.Review.DueDate.Compare(b.Review.DueDate)
		})
		for _, c := range due {
			if !yield(c) {
				return
			}
		}
	}
}

// DueCount returns how many cards are due at now.
func DueCount(cards []*domain.Card, now time.Time) int {
	n := 0
	for _, c := range cards {
		if c != nil && IsDue(c.Review, now) {
			n++
		}
	}
	return n
}

// NextReviewText describes when a card comes due relative to now.
// Days are rounded up, so anything due within the last day reads "Due today".
func NextReviewText(due, now time.Time) string {
	days := int(math.Ceil(due.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return "Overdue"
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	case days < 7:
		return fmt.Sprintf("Due in %d days", days)
	case days < 30:
		return plural("week", int(math.Ceil(float64(days)/7)))
	default:
		return plural("month", int(math.Ceil(float64(days)/30)))
	}
}

func plural(unit string, n int) string {
	if n == 1 {
		return fmt.Sprintf("Due in 1 %s", unit)
	}
	return fmt.Sprintf("Due in %d %ss", n, unit)
}
