package calendar

import (
	"errors"
	"io"
	"log"
	"time"
)

// maxMonths bounds a single range so a typo in a year cannot allocate
// centuries of grids.
const maxMonths = 1200

// Direction selects which side of today a relative range extends to.
type Direction int

const (
	Future Direction = iota
	Past
)

// RangeSpec describes a month range and the formats its months carry.
type RangeSpec struct {
	Start         string // first month, in RangeFormat
	End           string // last month, in RangeFormat
	RangeFormat   string
	HeaderFormat  string
	DisplayFormat string
	ClickedFormat string
	Locale        Locale
	InclusiveEnd  bool // false for relative ranges, where End is the first excluded month
}

// withDefaults fills in the widget's default formats.
func (s RangeSpec) withDefaults() RangeSpec {
	if s.RangeFormat == "" {
		s.RangeFormat = MonthYearPattern
	}
	if s.HeaderFormat == "" {
		s.HeaderFormat = MonthYearPattern
	}
	if s.DisplayFormat == "" {
		s.DisplayFormat = DayPattern
	}
	if s.ClickedFormat == "" {
		s.ClickedFormat = CanonicalPattern
	}
	return s
}

// RelativeRange returns the range of count months starting at the current
// month (Future), or of the count months before it (Past). The far
// boundary is exclusive.
func RelativeRange(now time.Time, count int, dir Direction, locale Locale) RangeSpec {
	current := Today(now, locale).FirstOfMonth()

	start, end := current, current.AddMonths(count)
	if dir == Past {
		start, end = current.AddMonths(-count), current
	}

	startText, _ := start.Format(MonthYearPattern)
	endText, _ := end.Format(MonthYearPattern)

	return RangeSpec{
		Start:        startText,
		End:          endText,
		RangeFormat:  MonthYearPattern,
		Locale:       locale,
		InclusiveEnd: false,
	}
}

// BuildMonths enumerates the months between the boundaries of spec and
// returns one recalibrated Month per calendar month.
func BuildMonths(spec RangeSpec) ([]*Month, error) {
	spec = spec.withDefaults()

	start, err := ParseDate(spec.Start, spec.RangeFormat, spec.Locale)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(spec.End, spec.RangeFormat, spec.Locale)
	if err != nil {
		return nil, err
	}
	if _, err := Layout(spec.HeaderFormat); err != nil {
		return nil, err
	}

	start, end = start.FirstOfMonth(), end.FirstOfMonth()

	var months []*Month
	for month := start; month.Before(end) || (spec.InclusiveEnd && month.Equal(end)); month = month.AddMonths(1) {
		if len(months) == maxMonths {
			return nil, &ConfigError{Op: "range", Value: spec.Start + " - " + spec.End, Err: errors.New("range exceeds 1200 months")}
		}

		header, err := month.Format(spec.HeaderFormat)
		if err != nil {
			return nil, err
		}

		days := month.DaysInMonth()
		dates := make([]Date, days)
		for i := range dates {
			dates[i] = month.AddDays(i)
		}

		months = append(months, newMonth(header, spec, dates))
	}

	return months, nil
}

// Builder is the fail-closed front of BuildMonths: configuration errors are
// logged and turn into an empty calendar.
type Builder struct {
	logger *log.Logger
}

// NewBuilder creates a Builder. A nil logger discards output.
func NewBuilder(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Builder{logger: logger}
}

// Build returns the months of spec, or an empty slice if the spec is unusable.
func (b *Builder) Build(spec RangeSpec) []*Month {
	months, err := BuildMonths(spec)
	if err != nil {
		b.logger.Printf("Failed to build months %q - %q: %v", spec.Start, spec.End, err)
		return []*Month{}
	}
	return months
}
