package query

import "time"

// Clock supplies the reference instant for time-window queries. Every
// operation reads it exactly once so the cutoff is consistent across the
// whole result set.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock is the production clock. Tests substitute a fixed one.
var SystemClock Clock = systemClock{}

const (
	// DayWindow is the canonical "today" window.
	DayWindow = 24 * time.Hour
	// WeekWindow is the 7-day statistics window.
	WeekWindow = 7 * 24 * time.Hour
)

// WindowStart returns the inclusive lower bound of a rolling window ending
// at ref.
func WindowStart(ref time.Time, d time.Duration) time.Time {
	return ref.Add(-d)
}

// InWindow reports whether a record created at createdAt falls inside the
// rolling window [ref-d, ref].
func InWindow(createdAt, ref time.Time, d time.Duration) bool {
	return !createdAt.Before(WindowStart(ref, d))
}
