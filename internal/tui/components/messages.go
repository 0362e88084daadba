package components

import "time"

// ViewChangeRequestMsg is emitted when a component requests a view change.
type ViewChangeRequestMsg struct {
	View View
}

// EditStartedMsg is emitted when the annotation editor opens. While it is
// open the calendar consumes every key.
type EditStartedMsg struct {
	Date string
}

// AnnotationSavedMsg is emitted after the editor commits. Empty text means
// the annotation was removed.
type AnnotationSavedMsg struct {
	Date string
	Text string
}

// ClockTickMsg is sent periodically so "today" follows the wall clock.
type ClockTickMsg struct {
	Time time.Time
}
