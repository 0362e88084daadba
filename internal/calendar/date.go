package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// Date is a calendar day in a locale. Dates are immutable; equality only
// looks at year, month and day.
type Date struct {
	t      time.Time // midnight UTC
	locale Locale
}

// ParseDate parses value against a Joda-style pattern in the given locale.
// A pattern without a day field yields the first of the month.
func ParseDate(value, pattern string, locale Locale) (Date, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return Date{}, err
	}
	if !hasYear(pattern) {
		return Date{}, &ConfigError{Op: "parse", Value: value, Pattern: pattern, Err: errors.New("pattern has no year field")}
	}

	t, err := monday.ParseInLocation(layout, strings.TrimSpace(value), time.UTC, locale.Names)
	if err != nil {
		return Date{}, &ConfigError{Op: "parse", Value: value, Pattern: pattern, Err: err}
	}

	return dateOf(t, locale), nil
}

// ParseCanonical parses a D/M/YYYY string.
func ParseCanonical(value string, locale Locale) (Date, error) {
	return ParseDate(value, CanonicalPattern, locale)
}

// Today returns the calendar day of now in the given locale.
func Today(now time.Time, locale Locale) Date {
	return dateOf(now, locale)
}

func dateOf(t time.Time, locale Locale) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), locale: locale}
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Year returns the year.
func (d Date) Year() int { return d.t.Year() }

// Month returns the month.
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.t.Day() }

// Locale returns the locale the date was created with.
func (d Date) Locale() Locale { return d.locale }

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time { return d.t }

// Canonical returns the D/M/YYYY identity string, e.g. "2/1/2018".
func (d Date) Canonical() string {
	return fmt.Sprintf("%d/%d/%d", d.t.Day(), int(d.t.Month()), d.t.Year())
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return d.Canonical()
}

// Format prints the date with a Joda-style pattern in the date's locale.
func (d Date) Format(pattern string) (string, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return "", err
	}
	return monday.Format(d.t, layout, d.locale.Names), nil
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n), locale: d.locale}
}

// AddMonths returns the first day of the month n months later.
func (d Date) AddMonths(n int) Date {
	first := d.FirstOfMonth()
	return Date{t: first.t.AddDate(0, n, 0), locale: d.locale}
}

// FirstOfMonth returns day 1 of the date's month.
func (d Date) FirstOfMonth() Date {
	return Date{t: time.Date(d.t.Year(), d.t.Month(), 1, 0, 0, 0, 0, time.UTC), locale: d.locale}
}

// LastOfMonth returns the last day of the date's month.
func (d Date) LastOfMonth() Date {
	return Date{t: d.FirstOfMonth().t.AddDate(0, 1, -1), locale: d.locale}
}

// DaysInMonth returns the number of days in the date's month.
func (d Date) DaysInMonth() int {
	return d.LastOfMonth().Day()
}

// WeekdayIndex returns the position of the date within a grid row, 1..7,
// where 1 is the locale's first weekday.
func (d Date) WeekdayIndex() int {
	return (int(d.t.Weekday())-int(d.locale.FirstWeekday)+7)%7 + 1
}

// Equal reports whether both dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// SameMonth reports whether both dates fall in the same month of the same year.
func (d Date) SameMonth(other Date) bool {
	return d.t.Year() == other.t.Year() && d.t.Month() == other.t.Month()
}

// IsCurrentOrFuture reports whether the date is today or later, where
// today is the calendar day of now.
func (d Date) IsCurrentOrFuture(now time.Time) bool {
	today := dateOf(now, d.locale)
	return !d.Before(today)
}
