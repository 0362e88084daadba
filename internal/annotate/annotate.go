// Package annotate loads per-date annotations from external sources and
// overlays them on a calendar model.
package annotate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hy4ri/monthgrid/internal/calendar"
)

// Source yields annotations keyed by canonical D/M/YYYY date for the days
// between from and to, both inclusive.
type Source interface {
	Name() string
	Annotations(from, to calendar.Date) (map[string]string, error)
}

// Entries is a fixed set of annotations, typically from the config file.
type Entries map[string]string

// Name implements Source.
func (e Entries) Name() string { return "entries" }

// Annotations implements Source. Keys are normalized to canonical form;
// keys that are not D/M/YYYY dates are dropped.
func (e Entries) Annotations(from, to calendar.Date) (map[string]string, error) {
	out := make(map[string]string, len(e))
	for key, value := range e {
		d, err := calendar.ParseCanonical(key, calendar.LocaleUS)
		if err != nil || d.Before(from) || d.After(to) {
			continue
		}
		out[d.Canonical()] = value
	}
	return out, nil
}

// Merge combines the results of several sources. Text for the same date is
// joined with ", " in source order.
func Merge(from, to calendar.Date, sources ...Source) (map[string]string, error) {
	merged := make(map[string]string)
	for _, src := range sources {
		values, err := src.Annotations(from, to)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		}
		for date, text := range values {
			merged[date] = join(merged[date], text)
		}
	}
	return merged, nil
}

// Apply loads every source over the model's visible span and annotates each
// date in all months that show it. It returns the number of dates applied.
func Apply(m *calendar.Model, sources ...Source) (int, error) {
	from, to, ok := m.Span()
	if !ok {
		return 0, nil
	}

	merged, err := Merge(from, to, sources...)
	if err != nil {
		return 0, err
	}
	return ApplyValues(m, merged), nil
}

// ApplyValues annotates m with already merged values in date order. It
// returns the number of dates that landed in at least one month.
func ApplyValues(m *calendar.Model, values map[string]string) int {
	dates := make([]string, 0, len(values))
	for date := range values {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	applied := 0
	for _, date := range dates {
		if m.AnnotateDate(date, values[date]) > 0 {
			applied++
		}
	}
	return applied
}

func join(existing, text string) string {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return existing
	case existing == "":
		return text
	default:
		return existing + ", " + text
	}
}
