package domain

import (
	"fmt"
	"time"
)

// Date formats: users type and see DD-MM-YYYY; storage and logs use ISO.
const (
	UserDateFormat = "02-01-2006"
	ISODateFormat  = "2006-01-02"
)

// ParseUserDate parses a DD-MM-YYYY date as typed by the user.
// Returns ErrInvalidDate when the text does not match the format.
func ParseUserDate(s string) (time.Time, error) {
	t, err := time.Parse(UserDateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected DD-MM-YYYY)", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseISODate parses a YYYY-MM-DD date as stored internally.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(ISODateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return t, nil
}

// AddMonths adds n calendar months to t, clamping to the last day of the
// target month when the original day does not exist there:
// 31 Jan + 1 month is 28 Feb (29 in a leap year), not 2/3 Mar.
//
// time.AddDate cannot be used directly because it normalizes overflowing
// days into the next month.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()

	m := int(month) - 1 + n
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	targetMonth := time.Month(m + 1)

	if last := daysInMonth(year, targetMonth); day > last {
		day = last
	}

	return time.Date(year, targetMonth, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month.
// Day 0 of the following month is the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the calendar-day difference to - from, counting
// midnights crossed rather than elapsed 24-hour periods. Each time is
// truncated to its date in its own location; dates are stored as plain
// calendar days (UTC midnights from the database, local midnights from
// the clock), so converting one into the other's zone would shift the
// day for westward timezones.
func DaysBetween(from, to time.Time) int {
	a := truncateToDate(from)
	b := truncateToDate(to)
	return int(b.Sub(a).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
