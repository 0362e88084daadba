package components

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// View represents the current view/screen.
type View int

const (
	ViewCalendar View = iota
	ViewHelp
)

// CalendarViewMode represents the calendar display mode.
type CalendarViewMode int

const (
	CalendarViewCompact  CalendarViewMode = iota // Small grid view
	CalendarViewExpanded                         // Grid with annotation text in cells
)

// ParseCalendarViewMode maps the config value to a view mode. Anything but
// "expanded" is compact.
func ParseCalendarViewMode(s string) CalendarViewMode {
	if s == "expanded" {
		return CalendarViewExpanded
	}
	return CalendarViewCompact
}

// String returns the config spelling of the mode.
func (m CalendarViewMode) String() string {
	if m == CalendarViewExpanded {
		return "expanded"
	}
	return "compact"
}

// HeaderCase is how the month header is cased on screen.
type HeaderCase int

const (
	HeaderCaseAsIs       HeaderCase = iota // as the locale spells it
	HeaderCaseCapitalize                   // first letter upper case
	HeaderCaseUpper                        // every letter upper case
)

// ParseHeaderCase maps the config value to a header case. Unknown values
// leave the header as is.
func ParseHeaderCase(s string) HeaderCase {
	switch s {
	case "capitalize":
		return HeaderCaseCapitalize
	case "upper":
		return HeaderCaseUpper
	}
	return HeaderCaseAsIs
}

// Apply cases header with the rules of tag.
func (hc HeaderCase) Apply(header string, tag language.Tag) string {
	switch hc {
	case HeaderCaseUpper:
		return cases.Upper(tag).String(header)
	case HeaderCaseCapitalize:
		_, size := utf8.DecodeRuneInString(header)
		if size == 0 {
			return header
		}
		return cases.Upper(tag).String(header[:size]) + header[size:]
	}
	return header
}
