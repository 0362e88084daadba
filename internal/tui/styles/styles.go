// Package styles provides Lip Gloss styles for the TUI.
package styles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal-adaptive colors that work in both light and dark terminals.
var (
	// Subtle is a muted color for secondary text
	Subtle = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	// Highlight is the accent color for selected items
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#990000"}

	// Special colors
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF6666"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#66FF66"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#FFAA00", Dark: "#FFCC66"}

	barBackground = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}
)

// Theme is the full set of styles a render uses. It is a value: renders
// receive it explicitly and overrides produce a new Theme.
type Theme struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	StatusBar        lipgloss.Style
	StatusBarKey     lipgloss.Style
	StatusBarText    lipgloss.Style
	StatusBarError   lipgloss.Style
	StatusBarSuccess lipgloss.Style

	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	SectionHeader lipgloss.Style
	Spinner       lipgloss.Style

	// Calendar
	CalendarHeader      lipgloss.Style
	CalendarWeekday     lipgloss.Style
	CalendarDay         lipgloss.Style
	CalendarDaySelected lipgloss.Style
	CalendarDayToday    lipgloss.Style
	CalendarDayDisabled lipgloss.Style
	CalendarDayFaded    lipgloss.Style // past days under future-only
	CalendarDayAdjacent lipgloss.Style // padding days of the neighbouring months
	CalendarDayNoted    lipgloss.Style // days carrying an annotation
	CalendarCursor      lipgloss.Style
	CalendarCellBorder  lipgloss.Style
	CalendarAnnotation  lipgloss.Style

	// Annotation editor
	Prompt lipgloss.Style
	Input  lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		// NOTE: No margins - the calendar height is counted in lines
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle),

		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}).
			Background(barBackground).
			Padding(0, 1),

		StatusBarKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			Background(barBackground),

		StatusBarText: lipgloss.NewStyle().
			Foreground(Subtle).
			Background(barBackground),

		StatusBarError: lipgloss.NewStyle().
			Foreground(ErrorColor).
			Background(barBackground).
			Bold(true),

		StatusBarSuccess: lipgloss.NewStyle().
			Foreground(SuccessColor).
			Background(barBackground).
			Bold(true),

		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight),

		HelpDesc: lipgloss.NewStyle().
			Foreground(Subtle),

		SectionHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle).
			Underline(true),

		Spinner: lipgloss.NewStyle().
			Foreground(Highlight),

		CalendarHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			Align(lipgloss.Center),

		CalendarWeekday: lipgloss.NewStyle().
			Foreground(Subtle),

		CalendarDay: lipgloss.NewStyle(),

		CalendarDaySelected: lipgloss.NewStyle().
			Bold(true).
			Background(Highlight).
			Foreground(lipgloss.Color("#ffffff")),

		CalendarDayToday: lipgloss.NewStyle().
			Bold(true).
			Foreground(SuccessColor),

		CalendarDayDisabled: lipgloss.NewStyle().
			Foreground(Subtle),

		CalendarDayFaded: lipgloss.NewStyle().
			Faint(true).
			Strikethrough(true),

		CalendarDayAdjacent: lipgloss.NewStyle().
			Faint(true),

		CalendarDayNoted: lipgloss.NewStyle().
			Foreground(WarningColor),

		CalendarCursor: lipgloss.NewStyle().
			Underline(true).
			Bold(true),

		CalendarCellBorder: lipgloss.NewStyle().
			Foreground(Subtle),

		CalendarAnnotation: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BBBBBB"}).
			Italic(true),

		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCC00")).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}),
	}
}

// colorTargets maps the color names accepted in the config to the style
// they recolor.
var colorTargets = map[string]func(t *Theme, c lipgloss.Color){
	"highlight": func(t *Theme, c lipgloss.Color) {
		t.Title = t.Title.Foreground(c)
		t.HelpKey = t.HelpKey.Foreground(c)
		t.StatusBarKey = t.StatusBarKey.Foreground(c)
		t.CalendarHeader = t.CalendarHeader.Foreground(c)
		t.Spinner = t.Spinner.Foreground(c)
	},
	"selected":   func(t *Theme, c lipgloss.Color) { t.CalendarDaySelected = t.CalendarDaySelected.Background(c) },
	"today":      func(t *Theme, c lipgloss.Color) { t.CalendarDayToday = t.CalendarDayToday.Foreground(c) },
	"weekday":    func(t *Theme, c lipgloss.Color) { t.CalendarWeekday = t.CalendarWeekday.Foreground(c) },
	"disabled":   func(t *Theme, c lipgloss.Color) { t.CalendarDayDisabled = t.CalendarDayDisabled.Foreground(c) },
	"annotated":  func(t *Theme, c lipgloss.Color) { t.CalendarDayNoted = t.CalendarDayNoted.Foreground(c) },
	"annotation": func(t *Theme, c lipgloss.Color) { t.CalendarAnnotation = t.CalendarAnnotation.Foreground(c) },
	"border":     func(t *Theme, c lipgloss.Color) { t.CalendarCellBorder = t.CalendarCellBorder.Foreground(c) },
	"error":      func(t *Theme, c lipgloss.Color) { t.StatusBarError = t.StatusBarError.Foreground(c) },
	"success":    func(t *Theme, c lipgloss.Color) { t.StatusBarSuccess = t.StatusBarSuccess.Foreground(c) },
}

// WithColors returns a copy of the theme with the named colors replaced.
// Values are anything lipgloss.Color accepts ("#ff8800", "205").
func (t Theme) WithColors(colors map[string]string) (Theme, error) {
	var unknown []string
	for name, value := range colors {
		apply, ok := colorTargets[strings.ToLower(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		apply(&t, lipgloss.Color(value))
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return t, fmt.Errorf("unknown theme colors: %s", strings.Join(unknown, ", "))
	}
	return t, nil
}

// ColorNames lists the color names WithColors accepts.
func ColorNames() []string {
	names := make([]string, 0, len(colorTargets))
	for name := range colorTargets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
