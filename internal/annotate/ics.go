package annotate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/hy4ri/monthgrid/internal/calendar"
)

// Event is the part of a VEVENT the calendar shows.
type Event struct {
	Summary string
	Start   time.Time
	AllDay  bool
}

// ParseICS decodes every VEVENT in r. Events without a start date or
// summary are skipped.
func ParseICS(r io.Reader) ([]Event, error) {
	dec := ical.NewDecoder(r)

	var events []Event
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}

			var event Event
			if prop := comp.Props.Get(ical.PropSummary); prop != nil {
				text, err := prop.Text()
				if err != nil {
					text = prop.Value
				}
				event.Summary = strings.TrimSpace(text)
			}
			if event.Summary == "" {
				continue
			}

			prop := comp.Props.Get(ical.PropDateTimeStart)
			if prop == nil {
				continue
			}
			start, err := prop.DateTime(time.UTC)
			if err != nil {
				continue
			}
			event.Start = start
			event.AllDay = prop.Params.Get(ical.ParamValue) == string(ical.ValueDate)

			events = append(events, event)
		}
	}

	return events, nil
}

// ICSFile is a Source reading an iCalendar file. Each event is shown on its
// start date; same-day summaries are joined in file order.
type ICSFile struct {
	Path string
}

// Name implements Source.
func (f ICSFile) Name() string { return "ics " + f.Path }

// Annotations implements Source.
func (f ICSFile) Annotations(from, to calendar.Date) (map[string]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	events, err := ParseICS(file)
	if err != nil {
		return nil, err
	}

	return EventAnnotations(events, from, to), nil
}

// EventAnnotations keys event summaries by the canonical start date,
// keeping only events between from and to.
func EventAnnotations(events []Event, from, to calendar.Date) map[string]string {
	out := make(map[string]string)
	for _, e := range events {
		d := calendar.Today(e.Start, from.Locale())
		if d.Before(from) || d.After(to) {
			continue
		}
		key := d.Canonical()
		out[key] = join(out[key], e.Summary)
	}
	return out
}
