package shared

import "time"

// Clock supplies the current time. Status derivation reads "now" exactly once
// per evaluation through this interface so tests can pin the evaluation instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock backed by time.Now.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. For tests.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}

// NewFixedClock creates a clock pinned to the given instant.
func NewFixedClock(instant time.Time) FixedClock {
	return FixedClock{Instant: instant}
}

// DateOnly truncates t to day granularity in its own location.
// Every date comparison in status derivation truncates both sides with this
// function; mixing truncated and untruncated instants misclassifies boundary
// records for part of a day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
