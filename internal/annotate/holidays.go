package annotate

import (
	"errors"
	"strings"
	"time"

	"github.com/hy4ri/monthgrid/internal/calendar"
)

// ErrUnknownRegion is returned for a holiday region with no table.
var ErrUnknownRegion = errors.New("unknown holiday region")

// Holidays is a Source of public holidays for a region. Only "de-nw"
// (North Rhine-Westphalia) is known.
type Holidays struct {
	Region string
}

// Name implements Source.
func (h Holidays) Name() string { return "holidays " + h.Region }

// Annotations implements Source.
func (h Holidays) Annotations(from, to calendar.Date) (map[string]string, error) {
	var table func(year int) map[time.Time]string
	switch strings.ToLower(strings.TrimSpace(h.Region)) {
	case "de-nw", "de_nw", "nrw":
		table = nrwHolidays
	default:
		return nil, ErrUnknownRegion
	}

	out := make(map[string]string)
	for year := from.Year(); year <= to.Year(); year++ {
		for t, name := range table(year) {
			d := calendar.Today(t, from.Locale())
			if d.Before(from) || d.After(to) {
				continue
			}
			out[d.Canonical()] = name
		}
	}
	return out, nil
}

// NRWHolidays returns all public holidays in NRW for the given year, keyed
// by canonical date.
func NRWHolidays(year int) map[string]string {
	out := make(map[string]string)
	for t, name := range nrwHolidays(year) {
		out[calendar.Today(t, calendar.LocaleUS).Canonical()] = name
	}
	return out
}

func nrwHolidays(year int) map[time.Time]string {
	holidays := make(map[time.Time]string)

	// Fixed holidays
	holidays[noon(year, time.January, 1)] = "Neujahr"
	holidays[noon(year, time.May, 1)] = "Tag der Arbeit"
	holidays[noon(year, time.October, 3)] = "Tag der Deutschen Einheit"
	holidays[noon(year, time.November, 1)] = "Allerheiligen"
	holidays[noon(year, time.December, 25)] = "1. Weihnachtstag"
	holidays[noon(year, time.December, 26)] = "2. Weihnachtstag"

	// Movable feasts hang off Easter Sunday.
	easter := easterSunday(year)
	holidays[easter.AddDate(0, 0, -2)] = "Karfreitag"
	holidays[easter.AddDate(0, 0, 1)] = "Ostermontag"
	holidays[easter.AddDate(0, 0, 39)] = "Christi Himmelfahrt"
	holidays[easter.AddDate(0, 0, 50)] = "Pfingstmontag"
	holidays[easter.AddDate(0, 0, 60)] = "Fronleichnam"

	return holidays
}

// easterSunday uses the Meeus/Jones/Butcher algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return noon(year, time.Month(month), day)
}

// noon avoids any day shift when the date is read back in another zone.
func noon(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
