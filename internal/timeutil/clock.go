package timeutil

import "time"

// Now returns the current local time. All business-date checks in the
// validators and services go through here so tests can reason about a
// single clock.
func Now() time.Time {
	return time.Now()
}

// DayStart truncates a time to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsStrictlyFuture reports whether t falls on a calendar day after today.
// A value on today's date (any hour) is NOT considered future.
func IsStrictlyFuture(t time.Time) bool {
	return DayStart(t).After(DayStart(Now()))
}

// ParseDate parses a YYYY-MM-DD value in local time.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.Local)
}
