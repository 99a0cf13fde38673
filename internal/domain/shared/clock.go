package shared

import "time"

// Clock provides the current time. Recurrence math and every scheduled
// state transition depend on "today", so the clock is injected rather
// than read from the wall.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now
type SystemClock struct{}

// Now returns the current wall-clock time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock frozen at a single instant, for tests
type FixedClock struct {
	Instant time.Time
}

// Now returns the frozen instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}

// NewFixedClock creates a FixedClock at the given instant
func NewFixedClock(instant time.Time) FixedClock {
	return FixedClock{Instant: instant}
}

// DateOf truncates t to midnight in its location. Due-date comparisons
// operate on calendar days, not instants.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
