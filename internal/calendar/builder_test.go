package calendar

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthDates(t *testing.T, first string, locale Locale) []Date {
	t.Helper()
	start := mustDate(t, first, locale)
	dates := make([]Date, start.DaysInMonth())
	for i := range dates {
		dates[i] = start.AddDays(i)
	}
	return dates
}

func TestRecalibrate(t *testing.T) {
	sundayFirst := LocaleUS.WithFirstWeekday(time.Sunday)

	tests := []struct {
		name      string
		first     string
		locale    Locale
		wantFirst string
		wantLast  string
	}{
		{"month starting on the first weekday", "1/1/2018", LocaleGerman, "1/1/2018", "4/2/2018"},
		{"leading december days", "1/1/2018", sundayFirst, "31/12/2017", "3/2/2018"},
		{"february fits four rows", "1/2/2021", LocaleUS, "1/2/2021", "28/2/2021"},
		{"trailing may days", "1/4/2018", LocaleGerman, "26/3/2018", "6/5/2018"},
		{"leap february", "1/2/2024", LocaleUS, "29/1/2024", "3/3/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := monthDates(t, tt.first, tt.locale)
			grid := Recalibrate(dates)

			require.Zero(t, len(grid)%DaysInWeek)
			assert.Equal(t, tt.wantFirst, grid[0].Canonical())
			assert.Equal(t, tt.wantLast, grid[len(grid)-1].Canonical())
			assert.Equal(t, 1, grid[0].WeekdayIndex())
			assert.Equal(t, DaysInWeek, grid[len(grid)-1].WeekdayIndex())

			for i := 1; i < len(grid); i++ {
				assert.True(t, grid[i-1].AddDays(1).Equal(grid[i]), "grid must be consecutive at %d", i)
			}

			front := dates[0].WeekdayIndex() - 1
			assert.Equal(t, dates, grid[front:front+len(dates)])
		})
	}

	assert.Empty(t, Recalibrate(nil))
}

func TestBuildMonthsInclusiveGerman(t *testing.T) {
	months, err := BuildMonths(RangeSpec{
		Start:        "Januar 2018",
		End:          "April 2018",
		Locale:       LocaleGerman,
		InclusiveEnd: true,
	})
	require.NoError(t, err)
	require.Len(t, months, 4)

	assert.Equal(t, "Januar 2018", months[0].Header)
	assert.Equal(t, "April 2018", months[3].Header)
	assert.Equal(t, time.Monday, months[0].Grid[0].Time().Weekday())

	april := months[3]
	last := april.Grid[len(april.Grid)-1]
	assert.Equal(t, time.Sunday, last.Time().Weekday())
	assert.Equal(t, "6/5/2018", last.Canonical())
	assert.Len(t, april.Dates, 30)
	assert.Equal(t, 6, april.PaddingFront())
}

func TestRelativeRange(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	months, err := BuildMonths(RelativeRange(now, 12, Future, LocaleUS))
	require.NoError(t, err)
	require.Len(t, months, 12)
	assert.Equal(t, "March 2024", months[0].Header)
	assert.Equal(t, "February 2025", months[11].Header)

	past, err := BuildMonths(RelativeRange(now, 3, Past, LocaleUS))
	require.NoError(t, err)
	require.Len(t, past, 3)
	assert.Equal(t, "December 2023", past[0].Header)
	assert.Equal(t, "February 2024", past[2].Header)
}

func TestBuildMonthsDefaults(t *testing.T) {
	months, err := BuildMonths(RangeSpec{Start: "May 2024", End: "May 2024", Locale: LocaleUS, InclusiveEnd: true})
	require.NoError(t, err)
	require.Len(t, months, 1)

	m := months[0]
	assert.Equal(t, MonthYearPattern, m.HeaderFormat)
	assert.Equal(t, DayPattern, m.DisplayFormat)
	assert.Equal(t, CanonicalPattern, m.ClickedFormat)
	assert.Equal(t, CanonicalPattern, m.DatesFormat)
	assert.Equal(t, "1/5/2024", m.DateStrings()[0])
	assert.Equal(t, "31/5/2024", m.DateStrings()[30])
}

func TestBuildMonthsErrors(t *testing.T) {
	tests := []struct {
		name string
		spec RangeSpec
		op   string
	}{
		{"bad start", RangeSpec{Start: "Smarch 2024", End: "May 2024", Locale: LocaleUS}, "parse"},
		{"bad end", RangeSpec{Start: "May 2024", End: "2024", Locale: LocaleUS}, "parse"},
		{"bad header", RangeSpec{Start: "May 2024", End: "June 2024", HeaderFormat: "MMMM yyyy HH", Locale: LocaleUS}, "layout"},
		{"too long", RangeSpec{Start: "1/1/1900", End: "1/1/2200", RangeFormat: CanonicalPattern, Locale: LocaleUS}, "range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildMonths(tt.spec)
			cfgErr, ok := IsConfigError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.op, cfgErr.Op)
		})
	}
}

func TestBuildMonthsEmptyRange(t *testing.T) {
	months, err := BuildMonths(RangeSpec{Start: "June 2024", End: "May 2024", Locale: LocaleUS, InclusiveEnd: true})
	require.NoError(t, err)
	assert.Empty(t, months)
}

func TestBuilderFailsClosed(t *testing.T) {
	var buf bytes.Buffer
	b := NewBuilder(log.New(&buf, "", 0))

	months := b.Build(RangeSpec{Start: "garbage", End: "May 2024", Locale: LocaleUS})
	require.NotNil(t, months)
	assert.Empty(t, months)
	assert.Contains(t, buf.String(), "Failed to build months")

	assert.NotPanics(t, func() {
		NewBuilder(nil).Build(RangeSpec{Start: "garbage", Locale: LocaleUS})
	})
}
