package utils

import "time"

// Clock provides the current wall-clock time. The lifecycle engine never
// reads time.Now directly so tests can pin "today".
type Clock interface {
	Now() time.Time
}

// TZClock yields time in a fixed civil timezone. All date-boundary checks
// (past date, future horizon) compare against this calendar, not UTC.
type TZClock struct {
	Location *time.Location
}

func NewTZClock(loc *time.Location) TZClock {
	return TZClock{Location: loc}
}

func (c TZClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// DateOf normalizes a moment to a date-only value (midnight UTC) so that
// calendar dates compare and subtract cleanly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the clock's current calendar day as a date-only value.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}
