package calendar

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Patterns used across the widget. They follow the Joda/ICU letter
// conventions hosts already know (d/M/yyyy, MMMM yyyy, ...).
const (
	// CanonicalPattern is the D/M/YYYY format used for date identity.
	CanonicalPattern = "d/M/yyyy"
	// MonthYearPattern is the default header and relative range format.
	MonthYearPattern = "MMMM yyyy"
	// DayPattern is the default in-grid display format.
	DayPattern = "d"

	weekdayHeaderPattern = "EEE"
)

var layoutCache sync.Map // pattern -> Go layout

// Layout translates a Joda-style date pattern into a Go reference layout.
func Layout(pattern string) (string, error) {
	if cached, ok := layoutCache.Load(pattern); ok {
		return cached.(string), nil
	}

	layout, err := translate(pattern)
	if err != nil {
		return "", &ConfigError{Op: "layout", Pattern: pattern, Err: err}
	}

	layoutCache.Store(pattern, layout)
	return layout, nil
}

func translate(pattern string) (string, error) {
	if strings.TrimSpace(pattern) == "" {
		return "", errors.New("empty pattern")
	}

	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]
		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}
		i += n

		switch {
		case r == 'd':
			if n == 1 {
				b.WriteString("2")
			} else {
				b.WriteString("02")
			}
		case r == 'M':
			switch n {
			case 1:
				b.WriteString("1")
			case 2:
				b.WriteString("01")
			case 3:
				b.WriteString("Jan")
			default:
				b.WriteString("January")
			}
		case r == 'y' || r == 'Y':
			if n == 2 {
				b.WriteString("06")
			} else {
				b.WriteString("2006")
			}
		case r == 'E':
			if n <= 3 {
				b.WriteString("Mon")
			} else {
				b.WriteString("Monday")
			}
		case r == '\'':
			return "", errors.New("quoted literals are not supported")
		case r == '_':
			return "", errors.New("underscore would be read as a padded layout element")
		case r >= '0' && r <= '9':
			return "", fmt.Errorf("literal digit %q would be read as a layout element", r)
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			return "", fmt.Errorf("unsupported pattern letter %q", r)
		default:
			b.WriteString(strings.Repeat(string(r), n))
		}
	}

	return b.String(), nil
}

// hasYear reports whether a pattern carries a year field.
func hasYear(pattern string) bool {
	return strings.ContainsAny(pattern, "yY")
}
