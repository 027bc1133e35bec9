package srs

import "time"

// Clock supplies the current time to the scheduler's callers.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// NewFixedClock returns a clock frozen at t.
func NewFixedClock(t time.Time) FixedClock {
	return FixedClock{T: t}
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.T
}

var (
	_ Clock = SystemClock{}
	_ Clock = FixedClock{}
)
