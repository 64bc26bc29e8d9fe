package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseGrain(t *testing.T) {
	g, err := ParseGrain("")
	require.NoError(t, err)
	assert.Equal(t, GrainDay, g)

	for _, s := range []string{"day", "week", "month"} {
		g, err := ParseGrain(s)
		require.NoError(t, err)
		assert.Equal(t, Grain(s), g)
	}

	_, err = ParseGrain("hour")
	assert.Error(t, err)
}

func TestFloorDay(t *testing.T) {
	in := time.Date(2025, 10, 18, 15, 44, 12, 999, time.UTC)
	assert.Equal(t, date(2025, 10, 18), GrainDay.Floor(in))
}

func TestFloorWeekAlignsToMonday(t *testing.T) {
	// 2025-10-13 is a Monday.
	monday := date(2025, 10, 13)

	cases := []time.Time{
		monday, // Monday floors to itself
		time.Date(2025, 10, 13, 23, 59, 59, 0, time.UTC),
		date(2025, 10, 15), // Wednesday
		date(2025, 10, 18), // Saturday
		date(2025, 10, 19), // Sunday belongs to the preceding Monday, not the next
	}
	for _, in := range cases {
		assert.Equal(t, monday, GrainWeek.Floor(in), "floor(%s)", in)
	}

	// The next Monday opens a new week.
	assert.Equal(t, date(2025, 10, 20), GrainWeek.Floor(date(2025, 10, 20)))
}

func TestFloorMonth(t *testing.T) {
	assert.Equal(t, date(2025, 2, 1), GrainMonth.Floor(time.Date(2025, 2, 28, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, date(2025, 12, 1), GrainMonth.Floor(date(2025, 12, 31)))
}

func TestNextRespectsCalendar(t *testing.T) {
	assert.Equal(t, date(2025, 3, 1), GrainDay.Next(date(2025, 2, 28)))
	assert.Equal(t, date(2024, 2, 29), GrainDay.Next(date(2024, 2, 28))) // leap year

	assert.Equal(t, date(2025, 10, 20), GrainWeek.Next(date(2025, 10, 13)))

	// Month stepping is +1 calendar month, 28-31 days apart.
	assert.Equal(t, date(2025, 2, 1), GrainMonth.Next(date(2025, 1, 1)))
	assert.Equal(t, date(2025, 3, 1), GrainMonth.Next(date(2025, 2, 1)))
	assert.Equal(t, date(2025, 8, 1), GrainMonth.Next(date(2025, 7, 1)))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "2025-10-01", Label(time.Date(2025, 10, 1, 18, 30, 0, 0, time.UTC)))
}

func TestDensifyDayAxis(t *testing.T) {
	rows := []BucketRow{
		{Bucket: date(2025, 10, 2), Value: 200},
		{Bucket: date(2025, 10, 4), Value: 50},
	}
	from := time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)
	to := time.Date(2025, 10, 5, 23, 0, 0, 0, time.UTC)

	labels, series := Densify(rows, from, to, GrainDay, 0)

	assert.Equal(t, []string{"2025-10-01", "2025-10-02", "2025-10-03", "2025-10-04", "2025-10-05"}, labels)
	assert.Equal(t, []float64{0, 200, 0, 50, 0}, series)
}

func TestDensifyAxisLengthProperty(t *testing.T) {
	// day-grain axis has days_between(floor(from), floor(to)) + 1 entries,
	// strictly increasing with no duplicates.
	cases := []struct {
		from, to time.Time
		want     int
	}{
		{date(2025, 10, 1), date(2025, 10, 1), 1},
		{date(2025, 10, 1), date(2025, 10, 31), 31},
		{date(2025, 2, 27), date(2025, 3, 2), 4},
		{date(2024, 2, 27), date(2024, 3, 2), 5}, // leap February
		{date(2025, 12, 30), date(2026, 1, 2), 4},
	}
	for _, tc := range cases {
		labels, series := Densify(nil, tc.from, tc.to, GrainDay, 0)
		require.Len(t, labels, tc.want, "%s..%s", tc.from, tc.to)
		require.Len(t, series, tc.want)
		for i := 1; i < len(labels); i++ {
			assert.Less(t, labels[i-1], labels[i])
		}
	}
}

func TestDensifyMonthAxisVariableLength(t *testing.T) {
	labels, _ := Densify(nil, date(2025, 1, 15), date(2025, 6, 3), GrainMonth, 0)
	assert.Equal(t, []string{"2025-01-01", "2025-02-01", "2025-03-01", "2025-04-01", "2025-05-01", "2025-06-01"}, labels)
}

func TestDensifyWeekAxis(t *testing.T) {
	labels, _ := Densify(nil, date(2025, 10, 1), date(2025, 10, 19), GrainWeek, 0)
	// Oct 1 2025 is a Wednesday; its week starts Mon Sep 29.
	assert.Equal(t, []string{"2025-09-29", "2025-10-06", "2025-10-13"}, labels)
}

func TestDensifyEmptyWhenFromAfterTo(t *testing.T) {
	labels, series := Densify(nil, date(2025, 10, 10), date(2025, 10, 1), GrainDay, 0)
	assert.Empty(t, labels)
	assert.Empty(t, series)
}

func TestDensifyCustomEmptyValue(t *testing.T) {
	_, series := Densify(nil, date(2025, 10, 1), date(2025, 10, 2), GrainDay, -1)
	assert.Equal(t, []float64{-1, -1}, series)
}
