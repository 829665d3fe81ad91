// Package dates provides calendar-month arithmetic for recurrence and
// budget-period calculations. time.AddDate normalizes overflowing days
// (Jan 31 + 1 month = Mar 3), which drifts recurring dates; the helpers
// here clamp to the last day of the target month instead.
package dates

import "time"

// AddCalendarMonths advances t by the given number of calendar months,
// clamping the day to the last day of the target month when the source
// day does not exist there (Jan 31 + 1 month = Feb 28, or Feb 29 in a
// leap year).
func AddCalendarMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	// Normalize the target year/month first, with day pinned to 1 so the
	// month itself never overflows.
	anchor := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	anchor = anchor.AddDate(0, months, 0)

	if last := DaysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the number of whole days from a to b, ignoring the
// time-of-day component. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	a = truncateToDay(a)
	b = truncateToDay(b)
	return int(b.Sub(a).Hours() / 24)
}

// SpanDays returns the inclusive day count of the window [start, end].
func SpanDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
