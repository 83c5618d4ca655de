package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseUserDate(t *testing.T) {
	got, err := domain.ParseUserDate("15-03-2024")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.March, 15), got)

	for _, bad := range []string{"", "2024-03-15", "15/03/2024", "32-01-2024", "banana"} {
		_, err := domain.ParseUserDate(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidDate, "input %q", bad)
	}
}

func TestParseISODate(t *testing.T) {
	got, err := domain.ParseISODate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.March, 15), got)

	_, err = domain.ParseISODate("15-03-2024")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestAddMonths(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain", day(2024, time.March, 15), 12, day(2025, time.March, 15)},
		{"within year", day(2024, time.January, 10), 3, day(2024, time.April, 10)},
		{"year rollover", day(2024, time.November, 5), 3, day(2025, time.February, 5)},
		// The clamping cases: the start day does not exist in the target
		// month, so the result lands on that month's last day. Plain
		// AddDate would overflow into the next month instead.
		{"jan 31 to leap feb", day(2024, time.January, 31), 1, day(2024, time.February, 29)},
		{"jan 31 to non-leap feb", day(2023, time.January, 31), 1, day(2023, time.February, 28)},
		{"may 31 to june 30", day(2024, time.May, 31), 1, day(2024, time.June, 30)},
		{"leap day one year out", day(2024, time.February, 29), 12, day(2025, time.February, 28)},
		{"many months", day(2024, time.January, 31), 13, day(2025, time.February, 28)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.AddMonths(tc.start, tc.months))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 14, domain.DaysBetween(day(2025, time.March, 1), day(2025, time.March, 15)))
	assert.Equal(t, 0, domain.DaysBetween(day(2025, time.March, 15), day(2025, time.March, 15)))
	assert.Equal(t, -5, domain.DaysBetween(day(2025, time.March, 20), day(2025, time.March, 15)))

	// calendar-day difference, not elapsed time: partial days don't count
	from := time.Date(2025, time.March, 1, 23, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, domain.DaysBetween(from, to))
}

func TestDaysBetween_MixedLocations(t *testing.T) {
	// "today" comes from the clock as midnight in the configured zone while
	// due dates come from the database as UTC midnights. Each side keeps its
	// own calendar day; a reminder due tomorrow is 1 day away even when the
	// configured zone is west of UTC.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	today := time.Date(2025, time.January, 15, 0, 0, 0, 0, ny)
	dueTomorrow := time.Date(2025, time.January, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, domain.DaysBetween(today, dueTomorrow))

	dueToday := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, domain.DaysBetween(today, dueToday))
}
