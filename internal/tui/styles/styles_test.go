package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestWithColors(t *testing.T) {
	base := DefaultTheme()

	theme, err := base.WithColors(map[string]string{
		"Today":    "#00ff00",
		"selected": "205",
	})
	if err != nil {
		t.Fatalf("WithColors: %v", err)
	}

	if got := theme.CalendarDayToday.GetForeground(); got != lipgloss.Color("#00ff00") {
		t.Errorf("today foreground = %v", got)
	}
	if got := theme.CalendarDaySelected.GetBackground(); got != lipgloss.Color("205") {
		t.Errorf("selected background = %v", got)
	}

	// The receiver is a value and stays untouched.
	if base.CalendarDayToday.GetForeground() == lipgloss.Color("#00ff00") {
		t.Error("WithColors modified the base theme")
	}
}

func TestWithColorsUnknown(t *testing.T) {
	_, err := DefaultTheme().WithColors(map[string]string{
		"sparkle": "#fff",
		"glitter": "#000",
		"today":   "#0f0",
	})
	if err == nil {
		t.Fatal("expected an error for unknown colors")
	}
	if !strings.Contains(err.Error(), "glitter, sparkle") {
		t.Errorf("error = %v", err)
	}
}

func TestColorNames(t *testing.T) {
	names := ColorNames()
	if len(names) != len(colorTargets) {
		t.Fatalf("got %d names, want %d", len(names), len(colorTargets))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
