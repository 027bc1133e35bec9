package domain

import "fmt"

// Quality is a learner's self-reported recall success for a flashcard,
// on the 0..5 scale used by the SM-2 family of schedulers.
type Quality int

// Quality scale values.
const (
	QualityBlackout  Quality = 0 // complete failure to recall
	QualityIncorrect Quality = 1
	QualityHard      Quality = 2
	QualityCorrect   Quality = 3 // correct but effortful; lowest passing grade
	QualityPerfect   Quality = 4
	QualityEasy      Quality = 5 // instant recall

	// MinQuality and MaxQuality bound the accepted scale.
	MinQuality = QualityBlackout
	MaxQuality = QualityEasy

	// PassingQuality is the lowest rating that counts as a successful review.
	PassingQuality = QualityCorrect
)

var qualityDescriptions = map[Quality]string{
	QualityBlackout:  "Complete blackout",
	QualityIncorrect: "Incorrect response",
	QualityHard:      "Hard to recall",
	QualityCorrect:   "Correct response",
	QualityPerfect:   "Perfect response",
	QualityEasy:      "Easy to recall",
}

// Valid reports whether q lies on the 0..5 scale.
func (q Quality) Valid() bool {
	return q >= MinQuality && q <= MaxQuality
}

// Passing reports whether q counts as a successful recall.
func (q Quality) Passing() bool {
	return q >= PassingQuality
}

// Description returns the human readable label of the rating,
// or "Unknown" for values off the scale.
func (q Quality) Description() string {
	if d, ok := qualityDescriptions[q]; ok {
		return d
	}
	return "Unknown"
}

// Validate returns ErrInvalidQuality wrapped with the offending value when q is off the scale.
func (q Quality) Validate() error {
	if !q.Valid() {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidQuality, q, MinQuality, MaxQuality)
	}
	return nil
}

// Qualities returns every rating on the scale in ascending order.
func Qualities() []Quality {
	out := make([]Quality, 0, MaxQuality-MinQuality+1)
	for q := MinQuality; q <= MaxQuality; q++ {
		out = append(out, q)
	}
	return out
}
