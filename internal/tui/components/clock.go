package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ClockInterval is how often the calendar re-checks the date.
const ClockInterval = time.Minute

// ClockTick returns a command that sends a ClockTickMsg after interval.
func ClockTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return ClockTickMsg{Time: t}
	})
}

// DayChanged reports whether prev and next fall on different calendar days.
func DayChanged(prev, next time.Time) bool {
	py, pm, pd := prev.Date()
	ny, nm, nd := next.Date()
	return py != ny || pm != nm || pd != nd
}
